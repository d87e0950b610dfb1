package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rawen554/userdir/internal/models"
)

// FileSource reads users from a JSON array or from one JSON object per line.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]models.User, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error open file: %w", err)
	}
	defer file.Close()

	sr := NewStorageReader(file)
	array, err := sr.isArray()
	if err != nil {
		return nil, err
	}
	if array {
		var users []models.User
		if err := sr.decoder.Decode(&users); err != nil {
			return nil, fmt.Errorf("error decode users: %w", err)
		}
		return users, nil
	}

	return sr.ReadAll(ctx)
}

func (s *FileSource) Close() {}

type StorageReader struct {
	br      *bufio.Reader
	decoder *json.Decoder
}

func NewStorageReader(r io.Reader) *StorageReader {
	br := bufio.NewReader(r)
	return &StorageReader{
		br:      br,
		decoder: json.NewDecoder(br),
	}
}

func (sr *StorageReader) isArray() (bool, error) {
	for {
		b, err := sr.br.Peek(1)
		if errors.Is(err, io.EOF) {
			return false, nil
		} else if err != nil {
			return false, fmt.Errorf("error reading file: %w", err)
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := sr.br.ReadByte(); err != nil {
				return false, fmt.Errorf("error reading file: %w", err)
			}
		default:
			return b[0] == '[', nil
		}
	}
}

func (sr *StorageReader) ReadAll(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u, err := sr.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	return users, nil
}

func (sr *StorageReader) ReadLine() (*models.User, error) {
	u := models.User{}
	if err := sr.decoder.Decode(&u); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, fmt.Errorf("error decode users: %w", err)
	}

	return &u, nil
}
