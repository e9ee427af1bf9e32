package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/filedraft/internal/versioning"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Relations 是静态注册的引用关系表：启动时构建一次，
// 版本工作流据此重写指向 File 的所有外键。
var Relations = newRelationRegistry()

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 filedraft.db。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "filedraft.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	return DB.AutoMigrate(
		&User{},
		&Folder{},
		&File{},
		&Tag{},
		&ShareLink{},
		&Collection{},
	)
}

// newRelationRegistry 列出 schema 中所有指向 File 的引用。
// 草稿到 live 的自引用链接由工作流自身维护，file_tags 属于 File 自有的
// 关联（由 CopyRelations 复制、随删除清理），两者都不在此注册。
func newRelationRegistry() *versioning.Registry {
	reg := versioning.NewRegistry()
	reg.Register(FileKind,
		versioning.Relation{
			Name:   "share_links.file_id",
			Table:  "share_links",
			Column: "file_id",
			Kind:   versioning.RelationToOne,
		},
		versioning.Relation{
			Name:   "folders.cover_file_id",
			Table:  "folders",
			Column: "cover_file_id",
			Kind:   versioning.RelationToOne,
		},
		versioning.Relation{
			Name:   "collection_files.file_id",
			Table:  "collection_files",
			Column: "file_id",
			Kind:   versioning.RelationManyToMany,
		},
	)
	return reg
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
