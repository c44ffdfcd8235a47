package store

import (
	"golang.org/x/net/context"
)

// Store decouples the indexer's hot path from mysql round trips.
type Store struct {
	ctx          context.Context
	classChan    chan *IndexedClass
	recordChan   chan *IndexedRecord
	activityChan chan *RecordActivity
	dao          *Dao
}

func NewStore(ctx context.Context, url, scheme, user, passwd string) *Store {
	s := &Store{
		ctx:          ctx,
		classChan:    make(chan *IndexedClass, 32),
		recordChan:   make(chan *IndexedRecord, 32),
		activityChan: make(chan *RecordActivity, 32),
	}
	s.dao = NewDao(url, scheme, user, passwd)
	return s
}

func (s *Store) Start() {
	go s.store()
}

func (s *Store) Stop() {
}

func (s *Store) store() {
	for {
		select {
		case class := <-s.classChan:
			s.dao.SaveClass(class)
		case record := <-s.recordChan:
			s.dao.SaveRecord(record)
		case activity := <-s.activityChan:
			s.dao.SaveActivity(activity)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Store) StoreClass(class *IndexedClass) {
	s.classChan <- class
}

func (s *Store) StoreRecord(record *IndexedRecord) {
	s.recordChan <- record
}

func (s *Store) StoreActivity(activity *RecordActivity) {
	s.activityChan <- activity
}

func (s *Store) GetClass(pubkey string) (*IndexedClass, error) {
	return s.dao.SelectClass(pubkey)
}

func (s *Store) GetClasses() ([]*IndexedClass, error) {
	return s.dao.SelectClasses()
}

func (s *Store) GetRecord(pubkey string) (*IndexedRecord, error) {
	return s.dao.SelectRecord(pubkey)
}

func (s *Store) GetRecordsByClass(class string) ([]*IndexedRecord, error) {
	return s.dao.SelectRecordsByClass(class)
}

func (s *Store) GetRecordByName(class, name string) (*IndexedRecord, error) {
	return s.dao.SelectRecordByName(class, name)
}

func (s *Store) GetActivities(record string) ([]*RecordActivity, error) {
	return s.dao.SelectActivities(record)
}

func (s *Store) DeleteRecord(pubkey string) error {
	return s.dao.DeleteRecord(pubkey)
}
