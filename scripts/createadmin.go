//go:build ignore

// 创建或重置管理员账号：go run scripts/createadmin.go -u admin -p 新密码
package main

import (
	"errors"
	"flag"
	"log"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"gorm.io/gorm"
)

func main() {
	username := flag.String("u", "admin", "username")
	password := flag.String("p", "", "new password")
	dbPath := flag.String("db", "inkwell.db", "database path")
	flag.Parse()

	if *password == "" {
		log.Fatal("必须通过 -p 指定新密码")
	}

	db, err := utils.InitDatabase(*dbPath)
	if err != nil {
		log.Fatal("初始化数据库失败：", err)
	}

	var user models.User
	err = db.Where("username = ?", *username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{Username: *username}
	} else if err != nil {
		log.Fatal("查询用户失败：", err)
	}

	if err := user.SetPassword(*password); err != nil {
		log.Fatal("生成密码哈希失败：", err)
	}
	if err := db.Save(&user).Error; err != nil {
		log.Fatal("保存用户失败：", err)
	}

	log.Printf("管理员 %s 的密码已更新。", *username)
}
