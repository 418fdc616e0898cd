// Package storage はコメント添付ファイルのローカルディスク保存を提供する。
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hitoshi/taskdeck/internal/model"
)

// allowedContentTypes は添付ファイルとして許可されるContent-Type。
var allowedContentTypes = map[string]string{
	"image/jpeg":      ".jpeg",
	"image/png":       ".png",
	"image/jpg":       ".jpg",
	"application/pdf": ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// FileStore は添付ファイルのローカルディスク保存を行う。
// 保存ファイル名は衝突を避けるためUUIDで生成し、参照パスは
// /uploads/配下の相対パスとして返す。
type FileStore struct {
	dir         string
	maxFiles    int
	maxFileSize int64
}

// NewFileStore はFileStoreを生成し、保存先ディレクトリを作成する。
func NewFileStore(dir string, maxFiles int, maxFileSize int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("アップロードディレクトリの作成に失敗しました: %w", err)
	}
	return &FileStore{
		dir:         dir,
		maxFiles:    maxFiles,
		maxFileSize: maxFileSize,
	}, nil
}

// Dir は保存先ディレクトリを返す。静的配信の設定に使用する。
func (s *FileStore) Dir() string {
	return s.dir
}

// SaveAll はmultipartフォームの添付ファイル群を検証して保存し、
// 参照パスの一覧を返す。ファイル数、各ファイルのサイズ、Content-Typeを
// 検証し、いずれかが不正な場合は何も保存せずエラーを返す。
func (s *FileStore) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > s.maxFiles {
		return nil, model.NewTooManyAttachmentsError(len(files))
	}

	// 保存前に全ファイルを検証する
	for _, fh := range files {
		if fh.Size > s.maxFileSize {
			return nil, model.NewFileTooLargeError(fh.Filename)
		}
		contentType := fh.Header.Get("Content-Type")
		if _, ok := allowedContentTypes[contentType]; !ok {
			return nil, model.NewInvalidFileTypeError(contentType)
		}
	}

	refs := make([]string, 0, len(files))
	for _, fh := range files {
		ref, err := s.save(fh)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// save は単一の添付ファイルを保存し、参照パスを返す。
// 拡張子は元ファイル名のものを優先し、なければContent-Typeから導出する。
func (s *FileStore) save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("添付ファイルのオープンに失敗しました: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(fh.Filename)
	if ext == "" {
		ext = allowedContentTypes[fh.Header.Get("Content-Type")]
	}
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("添付ファイルの作成に失敗しました: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("添付ファイルの書き込みに失敗しました: %w", err)
	}

	return path.Join("/uploads", name), nil
}
