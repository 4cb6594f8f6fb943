//go:build ignore

// 发布前的静态资源处理脚本：go run build.go -release 生成 .min 文件，
// go run build.go -clean 删除生成物。与服务器本体无关，不参与编译。
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

var m = minify.New()

func init() {
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/javascript", js.Minify)
}

func main() {
	release := flag.Bool("release", false, "Process assets for release")
	clean := flag.Bool("clean", false, "Clean processed assets")
	flag.Parse()

	if *release && *clean {
		log.Fatal("Cannot use -release and -clean flags simultaneously.")
	}

	switch {
	case *release:
		if err := processAssets(); err != nil {
			log.Fatalf("Failed to process assets for release: %v", err)
		}
		fmt.Println("Assets processed successfully.")
	case *clean:
		if err := cleanupAssets(); err != nil {
			log.Fatalf("Failed to clean up assets: %v", err)
		}
		fmt.Println("Cleanup complete.")
	default:
		fmt.Println("No action specified. Use -release to process assets or -clean to clean up.")
	}
}

func processAssets() error {
	return filepath.Walk("static", func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if strings.Contains(path, ".min.") {
			return nil
		}

		var mediatype string
		switch filepath.Ext(path) {
		case ".css":
			mediatype = "text/css"
		case ".js":
			mediatype = "text/javascript"
		default:
			return nil
		}

		return minifyFile(path, mediatype)
	})
}

func minifyFile(path, mediatype string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	minified, err := m.Bytes(mediatype, data)
	if err != nil {
		return fmt.Errorf("minify %s: %w", path, err)
	}

	ext := filepath.Ext(path)
	outPath := strings.TrimSuffix(path, ext) + ".min" + ext
	fmt.Printf("  %s -> %s\n", path, outPath)
	return os.WriteFile(outPath, minified, 0o644)
}

func cleanupAssets() error {
	return filepath.Walk("static", func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if strings.Contains(path, ".min.") {
			fmt.Printf("  removing %s\n", path)
			return os.Remove(path)
		}
		return nil
	})
}
