package store

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Dao struct {
	db *gorm.DB
}

func NewDao(url, scheme, user, passwd string) *Dao {
	dao := &Dao{}
	Logger := logger.Default
	Logger = Logger.LogMode(logger.Warn)
	db, err := gorm.Open(mysql.Open(user+":"+passwd+"@tcp("+url+")/"+
		scheme+"?charset=utf8"), &gorm.Config{Logger: Logger})
	if err != nil {
		panic(err)
	}
	err = db.AutoMigrate(&IndexedClass{}, &IndexedRecord{}, &RecordActivity{})
	if err != nil {
		panic(err)
	}
	dao.db = db
	return dao
}

func (dao *Dao) SaveClass(class *IndexedClass) error {
	return dao.db.Save(class).Error
}

func (dao *Dao) SaveRecord(record *IndexedRecord) error {
	return dao.db.Save(record).Error
}

func (dao *Dao) SaveActivity(activity *RecordActivity) error {
	return dao.db.Create(activity).Error
}

func (dao *Dao) SelectClass(pubkey string) (*IndexedClass, error) {
	class := &IndexedClass{}
	res := dao.db.Where("pubkey = ?", pubkey).First(class)
	if res.Error != nil {
		return nil, res.Error
	}
	return class, nil
}

func (dao *Dao) SelectClasses() ([]*IndexedClass, error) {
	classes := make([]*IndexedClass, 0)
	res := dao.db.Find(&classes)
	return classes, res.Error
}

func (dao *Dao) SelectRecord(pubkey string) (*IndexedRecord, error) {
	record := &IndexedRecord{}
	res := dao.db.Where("pubkey = ?", pubkey).First(record)
	if res.Error != nil {
		return nil, res.Error
	}
	return record, nil
}

func (dao *Dao) SelectRecordsByClass(class string) ([]*IndexedRecord, error) {
	records := make([]*IndexedRecord, 0)
	res := dao.db.Where("class = ?", class).Find(&records)
	return records, res.Error
}

func (dao *Dao) SelectRecordByName(class, name string) (*IndexedRecord, error) {
	record := &IndexedRecord{}
	res := dao.db.Where("class = ? and name = ?", class, name).First(record)
	if res.Error != nil {
		return nil, res.Error
	}
	return record, nil
}

func (dao *Dao) SelectActivities(record string) ([]*RecordActivity, error) {
	activities := make([]*RecordActivity, 0)
	res := dao.db.Where("record = ?", record).Find(&activities)
	return activities, res.Error
}

func (dao *Dao) DeleteRecord(pubkey string) error {
	return dao.db.Where("pubkey = ?", pubkey).Delete(&IndexedRecord{}).Error
}
