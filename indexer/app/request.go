package app

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/solrecord/record-service/store"
)

type ClassInfo struct {
	Key            string `json:"key"`
	Authority      string `json:"authority"`
	IsPermissioned bool   `json:"is_permissioned"`
	IsFrozen       bool   `json:"is_frozen"`
	Name           string `json:"name"`
	Metadata       string `json:"metadata"`
	Balance        string `json:"balance"`
	Slot           uint64 `json:"slot"`
}

type RecordInfo struct {
	Key      string `json:"key"`
	Class    string `json:"class"`
	Owner    string `json:"owner"`
	IsFrozen bool   `json:"is_frozen"`
	Expiry   string `json:"expiry"`
	Name     string `json:"name"`
	Data     string `json:"data"`
	Balance  string `json:"balance"`
	Slot     uint64 `json:"slot"`
}

type ActivityInfo struct {
	Record string `json:"record"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
	Slot   uint64 `json:"slot"`
	Time   string `json:"time"`
}

// sol renders lamports as a SOL amount.
func sol(lamports uint64) string {
	return decimal.NewFromInt(int64(lamports)).Shift(-9).String()
}

func expiryTime(expiry int64) string {
	if expiry == 0 {
		return ""
	}
	return time.Unix(expiry, 0).Format("2006-01-02 15:04:05")
}

func buildClassInfo(class *store.IndexedClass) *ClassInfo {
	return &ClassInfo{
		Key:            class.Pubkey,
		Authority:      class.Authority,
		IsPermissioned: class.IsPermissioned,
		IsFrozen:       class.IsFrozen,
		Name:           class.Name,
		Metadata:       class.Metadata,
		Balance:        sol(class.Lamports),
		Slot:           class.Slot,
	}
}

func buildClassInfos(classes []*store.IndexedClass) []*ClassInfo {
	infos := make([]*ClassInfo, 0, len(classes))
	for _, class := range classes {
		infos = append(infos, buildClassInfo(class))
	}
	return infos
}

func buildRecordInfo(record *store.IndexedRecord) *RecordInfo {
	return &RecordInfo{
		Key:      record.Pubkey,
		Class:    record.Class,
		Owner:    record.Owner,
		IsFrozen: record.IsFrozen,
		Expiry:   expiryTime(record.Expiry),
		Name:     record.Name,
		Data:     record.Data,
		Balance:  sol(record.Lamports),
		Slot:     record.Slot,
	}
}

func buildRecordInfos(records []*store.IndexedRecord) []*RecordInfo {
	infos := make([]*RecordInfo, 0, len(records))
	for _, record := range records {
		infos = append(infos, buildRecordInfo(record))
	}
	return infos
}

func buildActivityInfos(activities []*store.RecordActivity) []*ActivityInfo {
	infos := make([]*ActivityInfo, 0, len(activities))
	for _, activity := range activities {
		infos = append(infos, &ActivityInfo{
			Record: activity.Record,
			Kind:   activity.Kind,
			Detail: activity.Detail,
			Slot:   activity.Slot,
			Time:   time.Unix(activity.Time, 0).Format("2006-01-02 15:04:05"),
		})
	}
	return infos
}
