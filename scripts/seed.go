//go:build ignore

// 生成测试数据：go run scripts/seed.go -n 100
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/gosimple/slug"
)

const sampleContent = `<h2>示例文章</h2>
<p>这是一篇由脚本生成的文章，用于负载和分页测试。</p>
<p>正文包含若干段落，模拟真实的编辑器输出。</p>`

func main() {
	count := flag.Int("n", 100, "number of posts to create")
	dbPath := flag.String("db", "inkwell.db", "database path")
	flag.Parse()

	db, err := utils.InitDatabase(*dbPath)
	if err != nil {
		log.Fatal("初始化数据库失败：", err)
	}

	categories := []string{"技术", "生活", "随笔"}
	var catIDs []uint
	for _, name := range categories {
		category := models.Category{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			log.Fatal("创建分类失败：", err)
		}
		catIDs = append(catIDs, category.ID)
	}

	now := time.Now()
	for i := 1; i <= *count; i++ {
		title := fmt.Sprintf("测试文章 %d", i)
		publishedAt := now.AddDate(0, 0, -rand.Intn(365))
		catID := catIDs[rand.Intn(len(catIDs))]

		post := models.Post{
			Title:       title,
			Slug:        slug.Make(title),
			Content:     sampleContent,
			Tags:        "测试,示例",
			IsPublished: true,
			PublishedAt: &publishedAt,
			CategoryID:  &catID,
			UserID:      1,
		}
		if err := db.Create(&post).Error; err != nil {
			log.Printf("创建文章 %d 失败: %v", i, err)
		}
	}

	log.Printf("已生成 %d 篇测试文章。", *count)
}
