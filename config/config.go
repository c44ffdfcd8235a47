package config

import (
	"github.com/gagliardetto/solana-go"
)

var (
	CachePath   = "./cache/"
	ConfigPath  = "./config/"
	ConfigFile  = ConfigPath + "config.json"
	ClassesFile = ConfigPath + "classes.json"
	LogPath     = "./logs/"
	BackendLog  = "backend"
	ExecutorLog = "executor"
	IndexerLog  = "indexer"
	NetworkLog  = "network"
)

type Node struct {
	Rpc    string `json:"rpc"`
	Ws     string `json:"ws"`
	Usable bool   `json:"usable"`
}

type Config struct {
	Nodes            []*Node            `json:"nodes"`
	TransactionNodes []*Node            `json:"transaction_nodes"`
	User             solana.PublicKey   `json:"user"`
	Key              string             `json:"key"`
	Classes          []solana.PublicKey `json:"classes"`
	RpcPort          string             `json:"rpc_port"`
	DBUrl            string             `json:"db_url"`
	DBScheme         string             `json:"db_scheme"`
	DBUser           string             `json:"db_user"`
	DBPasswd         string             `json:"db_passwd"`
	WebhookUrl       string             `json:"webhook_url"`
	NetStatus        bool               `json:"net_status"`
	Simulate         bool               `json:"simulate"`
	WorkSpace        string             `json:"workspace"`
}
