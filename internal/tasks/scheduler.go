package tasks

import (
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"

	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/robfig/cron/v3"
)

// Scheduler 周期性地把全站导出归档落到备份目录，并按保留份数清理旧归档。
type Scheduler struct {
	cron          *cron.Cron
	backupService *services.BackupService
	backupDir     string
	cronSpec      string
	keep          int
}

func NewScheduler(backupService *services.BackupService, backupDir, cronSpec string, keep int) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		backupService: backupService,
		backupDir:     backupDir,
		cronSpec:      cronSpec,
		keep:          keep,
	}
}

func (s *Scheduler) Start() {
	if s.cronSpec == "" {
		log.Println("未配置定时备份，调度器不启动。")
		return
	}

	_, err := s.cron.AddFunc(s.cronSpec, recoveryWrapper(s.runBackup))
	if err != nil {
		log.Printf("添加定时备份任务失败: %v", err)
		return
	}

	s.cron.Start()
	log.Printf("定时备份已启动，cron 表达式: %s", s.cronSpec)
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runBackup() {
	log.Println("开始执行定时备份...")

	archivePath, archiveName, err := s.backupService.ExportAll()
	if err != nil {
		log.Printf("定时备份导出失败: %v", err)
		return
	}
	defer func() {
		_ = utils.RemoveTree(archivePath)
	}()

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		log.Printf("创建备份目录失败: %v", err)
		return
	}
	if err := utils.CopyFile(archivePath, filepath.Join(s.backupDir, archiveName)); err != nil {
		log.Printf("保存定时备份失败: %v", err)
		return
	}

	log.Printf("定时备份成功: %s", archiveName)
	s.pruneOldBackups()
}

// pruneOldBackups 留下最近的 keep 份归档，其余按文件名时间戳从旧到新删除。
func (s *Scheduler) pruneOldBackups() {
	if s.keep <= 0 {
		return
	}

	pattern := filepath.Join(s.backupDir, "blog_export_*.zip")
	archives, err := filepath.Glob(pattern)
	if err != nil || len(archives) <= s.keep {
		return
	}

	sort.Strings(archives) // 文件名里的时间戳即排序序
	for _, old := range archives[:len(archives)-s.keep] {
		if err := os.Remove(old); err != nil {
			log.Printf("删除过期备份 %s 失败: %v", old, err)
		} else {
			log.Printf("已删除过期备份: %s", filepath.Base(old))
		}
	}
}

func recoveryWrapper(job func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("定时任务执行时发生 panic: %v\n%s", r, debug.Stack())
			}
		}()
		job()
	}
}
