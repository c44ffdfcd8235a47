package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/solrecord/record-service/backend"
	"github.com/solrecord/record-service/config"
	"github.com/solrecord/record-service/networkdetect"
	"github.com/solrecord/record-service/recordservice"
)

func usage() {
	fmt.Printf("usage: srs <command> [-workspace <dir>] [arguments]\n")
	fmt.Printf("commands:\n")
	fmt.Printf("  create-class -name <name> [-metadata <json>] [-permissioned] [-frozen]\n")
	fmt.Printf("  update-class -class <pubkey> -metadata <json>\n")
	fmt.Printf("  freeze-class -class <pubkey> [-unfreeze]\n")
	fmt.Printf("  create-record -class <pubkey> -name <name> -data <data> [-expiry <unix>]\n")
	fmt.Printf("  update-record -record <pubkey> -data <data> [-delegate <pubkey>]\n")
	fmt.Printf("  transfer-record -record <pubkey> -owner <pubkey> [-delegate <pubkey>]\n")
	fmt.Printf("  delete-record -record <pubkey>\n")
	fmt.Printf("  freeze-record -record <pubkey> [-unfreeze] [-delegate <pubkey>]\n")
	fmt.Printf("  delegate -record <pubkey> [-update <pubkey>] [-transfer <pubkey>] [-freeze <pubkey>] [-burn <pubkey>] [-program <pubkey>] [-remove]\n")
	fmt.Printf("  show -key <pubkey>\n")
	os.Exit(2)
}

type cli struct {
	cfg     *config.Config
	backend *backend.Backend
	program *recordservice.Program
}

func newCli(ctx context.Context) *cli {
	infoJson, err := os.ReadFile(config.ConfigFile)
	if err != nil {
		panic(err)
	}
	var cfg config.Config
	if err := json.Unmarshal(infoJson, &cfg); err != nil {
		panic(err)
	}
	usableNodes := make([]*config.Node, 0)
	for _, node := range cfg.Nodes {
		if node.Usable {
			usableNodes = append(usableNodes, node)
		}
	}
	cfg.Nodes = usableNodes
	if len(cfg.Nodes) == 0 {
		panic("no usable nodes")
	}
	if cfg.NetStatus && len(cfg.Nodes) > 1 {
		peers := make([]string, 0, len(cfg.Nodes))
		for _, node := range cfg.Nodes {
			peers = append(peers, node.Rpc)
		}
		best, rtt := networkdetect.DetectPeers(peers)
		fmt.Printf("nearest node: %s (%d ms)\n", best, rtt/1000000)
		for _, node := range cfg.Nodes {
			if node.Rpc == best {
				cfg.Nodes = []*config.Node{node}
				break
			}
		}
	}
	c := &cli{cfg: &cfg}
	c.backend = backend.NewBackend(ctx, cfg.Nodes, true, cfg.TransactionNodes)
	c.backend.ImportWallet(cfg.Key)
	c.backend.SetPlayer(cfg.User)
	c.backend.Start()
	c.program = recordservice.NewProgram(ctx, c.backend, nil)
	return c
}

type simulateWaiter struct {
	done chan []*rpc.Account
}

func (w *simulateWaiter) OnCommandExecuted(accounts []*rpc.Account) error {
	w.done <- accounts
	return nil
}

func (c *cli) send(in solana.Instruction, err error) {
	if err != nil {
		panic(err)
	}
	ins := []solana.Instruction{in}
	if c.cfg.Simulate {
		if len(c.cfg.TransactionNodes) > 0 {
			waiter := &simulateWaiter{done: make(chan []*rpc.Account, len(c.cfg.TransactionNodes))}
			c.backend.Commit(0, uint64(time.Now().UnixNano()), ins, true, nil, waiter)
			select {
			case <-waiter.done:
				fmt.Printf("simulation ok\n")
			case <-time.After(time.Second * 30):
				fmt.Printf("simulation did not complete, check the executor logs\n")
			}
			return
		}
		_, logs, err := c.backend.Simulate(ins, nil)
		if err != nil {
			fmt.Printf("simulation err: %s\n%s\n", err.Error(), logs)
			return
		}
		fmt.Printf("simulation ok\n%s\n", logs)
		return
	}
	sig, err := c.backend.Send(ins)
	if err != nil {
		panic(err)
	}
	fmt.Printf("transaction: %s\n", sig)
}

func mustKey(name, value string) solana.PublicKey {
	if value == "" {
		fmt.Printf("-%s is required\n", name)
		os.Exit(2)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		panic(err)
	}
	return key
}

func optionalKey(value string) *solana.PublicKey {
	if value == "" {
		return nil
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		panic(err)
	}
	return &key
}

func keyOrDefault(value string, def solana.PublicKey) solana.PublicKey {
	if value == "" {
		return def
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		panic(err)
	}
	return key
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	command := os.Args[1]
	flags := flag.NewFlagSet(command, flag.ExitOnError)
	workSpace := flags.String("workspace", ".", "directory holding config/ and logs/")
	name := flags.String("name", "", "class or record name")
	metadata := flags.String("metadata", "", "class metadata")
	data := flags.String("data", "", "record data")
	class := flags.String("class", "", "class account")
	record := flags.String("record", "", "record account")
	owner := flags.String("owner", "", "new owner")
	delegate := flags.String("delegate", "", "delegate account")
	key := flags.String("key", "", "account to show")
	expiry := flags.Int64("expiry", 0, "expiry unix timestamp, 0 for none")
	permissioned := flags.Bool("permissioned", false, "restrict record creation to the class authority")
	frozen := flags.Bool("frozen", false, "create the class frozen")
	unfreeze := flags.Bool("unfreeze", false, "thaw instead of freeze")
	remove := flags.Bool("remove", false, "remove the delegate")
	updateAuth := flags.String("update", "", "delegate update authority")
	transferAuth := flags.String("transfer", "", "delegate transfer authority")
	freezeAuth := flags.String("freeze", "", "delegate freeze authority")
	burnAuth := flags.String("burn", "", "delegate burn authority")
	programAuth := flags.String("program", "", "delegate authority program")
	flags.Parse(os.Args[2:])

	if err := os.Chdir(*workSpace); err != nil {
		panic(err)
	}
	c := newCli(ctx)
	defer c.backend.Stop()
	user := c.cfg.User

	switch command {
	case "create-class":
		if *name == "" {
			usage()
		}
		c.printRent(recordservice.ClassSpace(*name, *metadata))
		c.send(c.program.InstructionCreateClass(user, *permissioned, *frozen, *name, *metadata))
	case "update-class":
		c.send(c.program.InstructionUpdateClassMetadata(user, mustKey("class", *class), *metadata))
	case "freeze-class":
		c.send(c.program.InstructionFreezeClass(user, mustKey("class", *class), !*unfreeze))
	case "create-record":
		if *name == "" {
			usage()
		}
		c.printRent(recordservice.RecordSpace(*name, *data))
		c.send(c.program.InstructionCreateRecord(user, user, mustKey("class", *class), *expiry, *name, *data))
	case "update-record":
		c.send(c.program.InstructionUpdateRecord(user, mustKey("record", *record), optionalKey(*delegate), *data))
	case "transfer-record":
		c.send(c.program.InstructionTransferRecord(user, mustKey("record", *record), mustKey("owner", *owner), optionalKey(*delegate)))
	case "delete-record":
		c.send(c.program.InstructionDeleteRecord(user, user, mustKey("record", *record)))
	case "freeze-record":
		c.send(c.program.InstructionFreezeRecord(user, mustKey("record", *record), optionalKey(*delegate), !*unfreeze))
	case "delegate":
		recordKey := mustKey("record", *record)
		if *remove {
			c.send(c.program.InstructionDeleteRecordDelegate(user, recordKey))
			return
		}
		authorities := &recordservice.DelegateAuthorities{
			UpdateAuthority:   keyOrDefault(*updateAuth, user),
			FreezeAuthority:   keyOrDefault(*freezeAuth, user),
			TransferAuthority: keyOrDefault(*transferAuth, user),
			BurnAuthority:     keyOrDefault(*burnAuth, user),
			AuthorityProgram:  optionalKey(*programAuth),
		}
		delegateKey, _, err := recordservice.DelegateAddress(recordKey)
		if err != nil {
			panic(err)
		}
		if c.backend.HasAccount(delegateKey) {
			c.send(c.program.InstructionUpdateRecordDelegate(user, recordKey, authorities))
		} else {
			c.send(c.program.InstructionCreateRecordDelegate(user, recordKey, authorities))
		}
	case "show":
		c.show(mustKey("key", *key))
	default:
		usage()
	}
}

func (c *cli) printRent(space uint64) {
	rent, err := c.backend.GetMinimumBalanceForRentExemption(space)
	if err != nil {
		fmt.Printf("rent lookup err: %s\n", err.Error())
		return
	}
	fmt.Printf("account space: %d bytes, rent-exempt balance: %d lamports\n", space, rent)
}

func (c *cli) show(key solana.PublicKey) {
	account, err := c.backend.Account(key)
	if err != nil {
		panic(err)
	}
	if account.Account == nil {
		fmt.Printf("account not found: %s\n", key)
		return
	}
	schema, values, err := c.program.Descriptor().Accounts.Decode(account.Account.Data.GetBinary())
	if err != nil {
		panic(err)
	}
	pretty, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s (%s, %d lamports)\n%s\n", key, schema.Name(), account.Account.Lamports, pretty)
}
