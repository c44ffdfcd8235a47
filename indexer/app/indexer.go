package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solrecord/record-service/backend"
	"github.com/solrecord/record-service/config"
	"github.com/solrecord/record-service/networkdetect"
	"github.com/solrecord/record-service/recordservice"
	"github.com/solrecord/record-service/store"
	"github.com/solrecord/record-service/utils"
	"github.com/solrecord/record-service/webhook"
)

const (
	Stopped = iota
	Running
)

// Indexer mirrors the record service program's accounts into mysql and
// serves them over http.
type Indexer struct {
	ctx        context.Context
	log        *log.Logger
	cfg        *config.Config
	backend    *backend.Backend
	program    *recordservice.Program
	store      *store.Store
	notifier   *webhook.Notifier
	detector   *networkdetect.NetworkDetector
	httpServer *http.Server
	status     int
}

func NewIndexer(ctx context.Context, cfg *config.Config) *Indexer {
	indexer := &Indexer{
		ctx: ctx,
		cfg: cfg,
	}
	indexer.backend = backend.NewBackend(ctx, cfg.Nodes, false, cfg.TransactionNodes)
	indexer.program = recordservice.NewProgram(ctx, indexer.backend, indexer)
	if cfg.DBUrl != "" {
		indexer.store = store.NewStore(ctx, cfg.DBUrl, cfg.DBScheme, cfg.DBUser, cfg.DBPasswd)
	}
	if cfg.WebhookUrl != "" {
		indexer.notifier = webhook.NewNotifier(cfg.WebhookUrl)
	}
	if cfg.NetStatus {
		indexer.detector = networkdetect.NewNetworkDetector(cfg.Nodes[0].Rpc, int64(time.Millisecond*200), indexer.notifier)
	}
	return indexer
}

func (indexer *Indexer) Start() {
	indexer.log = utils.NewLog(config.LogPath, config.IndexerLog)
	if indexer.store != nil {
		indexer.store.Start()
	}
	indexer.backend.Start()
	if err := indexer.program.Start(); err != nil {
		panic(err)
	}
	if err := indexer.program.RetrieveAll(); err != nil {
		panic(err)
	}
	if err := indexer.program.SubscribeAll(); err != nil {
		panic(err)
	}
	if err := indexer.backend.StartSubscribe(); err != nil {
		panic(err)
	}
	if indexer.detector != nil {
		indexer.detector.Start()
	}
	indexer.StartRPC()
	indexer.status = Running
	indexer.log.Printf("record indexer has started......")
}

func (indexer *Indexer) Stop() {
	indexer.StopRPC()
	indexer.program.Stop()
	indexer.backend.Stop()
	if indexer.store != nil {
		indexer.store.Stop()
	}
	indexer.status = Stopped
	indexer.log.Printf("record indexer has stopped......")
}

func (indexer *Indexer) StartRPC() {
	router := gin.New()
	g := router.Group("/api")
	g.GET("/class", indexer.getClass)
	g.GET("/classes", indexer.getClasses)
	g.GET("/record", indexer.getRecord)
	g.GET("/records", indexer.getRecords)
	g.GET("/activity", indexer.getActivity)
	indexer.httpServer = &http.Server{
		Addr:    indexer.cfg.RpcPort,
		Handler: router,
	}
	indexer.log.Printf("start rpc server......")
	go func() {
		if err := indexer.httpServer.ListenAndServe(); err != nil {
			indexer.log.Printf("ListenAndServe: %s", err.Error())
		}
	}()
}

func (indexer *Indexer) StopRPC() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := indexer.httpServer.Shutdown(ctx); err != nil {
		indexer.log.Printf("rpc server shutdown err: %s", err.Error())
	}
	indexer.log.Printf("rpc server has stopped......")
}

func (indexer *Indexer) getClass(c *gin.Context) {
	if indexer.store == nil {
		c.JSON(500, "db is not configured")
		return
	}
	key, ok := c.GetQuery("key")
	if !ok {
		c.JSON(500, "parameter is invalid")
		return
	}
	class, err := indexer.store.GetClass(key)
	if err != nil {
		c.JSON(500, err.Error())
		return
	}
	c.JSON(200, buildClassInfo(class))
}

func (indexer *Indexer) getClasses(c *gin.Context) {
	if indexer.store == nil {
		c.JSON(500, "db is not configured")
		return
	}
	classes, err := indexer.store.GetClasses()
	if err != nil {
		c.JSON(500, err.Error())
		return
	}
	c.JSON(200, buildClassInfos(classes))
}

func (indexer *Indexer) getRecord(c *gin.Context) {
	if indexer.store == nil {
		c.JSON(500, "db is not configured")
		return
	}
	if key, ok := c.GetQuery("key"); ok {
		record, err := indexer.store.GetRecord(key)
		if err != nil {
			c.JSON(500, err.Error())
			return
		}
		c.JSON(200, buildRecordInfo(record))
		return
	}
	class, hasClass := c.GetQuery("class")
	name, hasName := c.GetQuery("name")
	if !hasClass || !hasName {
		c.JSON(500, "parameter is invalid")
		return
	}
	record, err := indexer.store.GetRecordByName(class, name)
	if err != nil {
		c.JSON(500, err.Error())
		return
	}
	c.JSON(200, buildRecordInfo(record))
}

func (indexer *Indexer) getRecords(c *gin.Context) {
	if indexer.store == nil {
		c.JSON(500, "db is not configured")
		return
	}
	class, ok := c.GetQuery("class")
	if !ok {
		c.JSON(500, "parameter is invalid")
		return
	}
	records, err := indexer.store.GetRecordsByClass(class)
	if err != nil {
		c.JSON(500, err.Error())
		return
	}
	c.JSON(200, buildRecordInfos(records))
}

func (indexer *Indexer) getActivity(c *gin.Context) {
	if indexer.store == nil {
		c.JSON(500, "db is not configured")
		return
	}
	record, ok := c.GetQuery("record")
	if !ok {
		c.JSON(500, "parameter is invalid")
		return
	}
	activities, err := indexer.store.GetActivities(record)
	if err != nil {
		c.JSON(500, err.Error())
		return
	}
	c.JSON(200, buildActivityInfos(activities))
}

func (indexer *Indexer) OnClassUpdate(old *recordservice.KeyedClass, new *recordservice.KeyedClass) error {
	if new == nil {
		if old != nil {
			indexer.log.Printf("class closed: %s", old.Key)
		}
		return nil
	}
	if indexer.store != nil {
		indexer.store.StoreClass(&store.IndexedClass{
			Pubkey:         new.Key.String(),
			Authority:      new.Authority.String(),
			IsPermissioned: new.IsPermissioned,
			IsFrozen:       new.IsFrozen,
			Name:           new.Name,
			Metadata:       new.Metadata,
			Lamports:       new.Lamports,
			Slot:           new.Height,
		})
	}
	if old != nil && old.IsFrozen != new.IsFrozen {
		indexer.notify(fmt.Sprintf("class %s frozen: %v", new.Key, new.IsFrozen))
	}
	return nil
}

func (indexer *Indexer) OnRecordUpdate(old *recordservice.KeyedRecord, new *recordservice.KeyedRecord) error {
	if new == nil {
		if old == nil {
			return nil
		}
		if indexer.store != nil {
			if err := indexer.store.DeleteRecord(old.Key.String()); err != nil {
				indexer.log.Printf("delete record err: %s", err.Error())
			}
			indexer.store.StoreActivity(&store.RecordActivity{
				Record: old.Key.String(),
				Kind:   "delete",
				Detail: old.Name,
				Slot:   old.Height,
				Time:   time.Now().Unix(),
			})
		}
		indexer.notify(fmt.Sprintf("record %s deleted: %s", old.Key, old.Name))
		return nil
	}
	if indexer.store != nil {
		indexer.store.StoreRecord(&store.IndexedRecord{
			Pubkey:   new.Key.String(),
			Class:    new.Class.String(),
			Owner:    new.Owner.String(),
			IsFrozen: new.IsFrozen,
			Expiry:   new.Expiry,
			Name:     new.Name,
			Data:     new.Data,
			Lamports: new.Lamports,
			Slot:     new.Height,
		})
	}
	kind, detail := recordActivity(old, new)
	if kind == "" {
		return nil
	}
	if indexer.store != nil {
		indexer.store.StoreActivity(&store.RecordActivity{
			Record: new.Key.String(),
			Kind:   kind,
			Detail: detail,
			Slot:   new.Height,
			Time:   time.Now().Unix(),
		})
	}
	if kind != "create" && kind != "update" {
		indexer.notify(fmt.Sprintf("record %s %s: %s", new.Key, kind, detail))
	}
	return nil
}

func (indexer *Indexer) OnDelegateUpdate(old *recordservice.KeyedDelegate, new *recordservice.KeyedDelegate) error {
	if new == nil {
		if old != nil {
			indexer.log.Printf("delegate removed: %s, record: %s", old.Key, old.Record)
		}
		return nil
	}
	indexer.log.Printf("delegate update: %s, record: %s", new.Key, new.Record)
	return nil
}

func recordActivity(old *recordservice.KeyedRecord, new *recordservice.KeyedRecord) (string, string) {
	if old == nil {
		return "create", new.Name
	}
	if old.Owner != new.Owner {
		return "transfer", fmt.Sprintf("%s -> %s", old.Owner, new.Owner)
	}
	if old.IsFrozen != new.IsFrozen {
		if new.IsFrozen {
			return "freeze", ""
		}
		return "unfreeze", ""
	}
	if old.Data != new.Data {
		return "update", ""
	}
	return "", ""
}

func (indexer *Indexer) notify(content string) {
	if indexer.notifier == nil {
		return
	}
	if _, err := indexer.notifier.Notify(content); err != nil {
		indexer.log.Printf("notify err: %s", err.Error())
	}
}
