package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Form{},
		&Question{},
		&Edition{},
		&Event{},
		&Applicant{},
		&Wish{},
		&Label{},
		&Answer{},
		&Subscriber{},
		&SubscriberVerification{},
	)
}
