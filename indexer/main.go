package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/solrecord/record-service/config"
	"github.com/solrecord/record-service/indexer/app"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGABRT)

	if len(os.Args) != 2 {
		panic("usage: indexer <workspace>")
	}
	workSpace := os.Args[1]
	os.Chdir(workSpace)

	infoJson, err := os.ReadFile(config.ConfigFile)
	if err != nil {
		panic(err)
	}
	var cfg config.Config
	err = json.Unmarshal(infoJson, &cfg)
	if err != nil {
		panic(err)
	}
	cfg.WorkSpace = workSpace
	workspace, _ := os.Getwd()
	fmt.Printf("work space: %s\n", workspace)

	oldNodes := cfg.Nodes
	usableNodes := make([]*config.Node, 0)
	for _, node := range oldNodes {
		if node.Usable {
			usableNodes = append(usableNodes, node)
		}
	}
	cfg.Nodes = usableNodes
	if len(cfg.Nodes) == 0 {
		panic("no usable nodes")
	}

	indexer := app.NewIndexer(ctx, &cfg)
	indexer.Start()
	<-quit
	cancel()
	indexer.Stop()
}
