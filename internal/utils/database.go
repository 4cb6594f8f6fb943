package utils

import (
	"errors"
	"log"

	"inkwell/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func InitDatabase(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = "inkwell.db"
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// 自动迁移模式
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.SiteSetting{},
		&models.PageView{},
	)
	if err != nil {
		return nil, err
	}

	if err := seedAdminUser(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedAdminUser creates the default admin account on first startup.
func seedAdminUser(db *gorm.DB) error {
	var user models.User
	err := db.Where("username = ?", "admin").First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user = models.User{Username: "admin"}
	if err := user.SetPassword("admin"); err != nil {
		return err
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Println("已创建默认管理员账号 admin/admin，请尽快修改密码。")
	return nil
}
