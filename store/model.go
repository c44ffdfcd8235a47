package store

type IndexedClass struct {
	Pubkey         string `gorm:"primaryKey;type:varchar(48);not null"`
	Authority      string `gorm:"type:varchar(48);not null"`
	IsPermissioned bool   `gorm:"not null"`
	IsFrozen       bool   `gorm:"not null"`
	Name           string `gorm:"type:varchar(255);not null"`
	Metadata       string `gorm:"type:text"`
	Lamports       uint64 `gorm:"type:bigint(20);not null"`
	Slot           uint64 `gorm:"type:bigint(20);not null"`
}

type IndexedRecord struct {
	Pubkey   string `gorm:"primaryKey;type:varchar(48);not null"`
	Class    string `gorm:"type:varchar(48);not null;index"`
	Owner    string `gorm:"type:varchar(48);not null;index"`
	IsFrozen bool   `gorm:"not null"`
	Expiry   int64  `gorm:"type:bigint(20);not null"`
	Name     string `gorm:"type:varchar(255);not null"`
	Data     string `gorm:"type:text"`
	Lamports uint64 `gorm:"type:bigint(20);not null"`
	Slot     uint64 `gorm:"type:bigint(20);not null"`
}

type RecordActivity struct {
	Id     uint64 `gorm:"primaryKey;autoIncrement;type:bigint(20);not null"`
	Record string `gorm:"type:varchar(48);not null;index"`
	Kind   string `gorm:"type:varchar(32);not null"`
	Detail string `gorm:"type:varchar(255);not null"`
	Slot   uint64 `gorm:"type:bigint(20);not null"`
	Time   int64  `gorm:"type:bigint(20);not null"`
}
