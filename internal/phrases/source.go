package phrases

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Source отдаёт актуальный Set. Если задан файл, он перечитывается
// при каждом изменении; битый файл не заменяет последний рабочий набор.
type Source struct {
	cur     atomic.Pointer[Set]
	path    string
	watcher *fsnotify.Watcher
}

// Static: источник без файла, для встроенного набора и тестов.
func Static(s *Set) *Source {
	src := &Source{}
	src.cur.Store(s)
	return src
}

// NewSource загружает фразы из path; пустой path означает встроенный набор.
func NewSource(path string) (*Source, error) {
	if path == "" {
		return Static(Default()), nil
	}

	src := &Source{path: path}
	if err := src.Reload(); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("phrases: create watcher: %w", err)
	}
	// Следим за каталогом: редакторы часто пишут файл через rename.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("phrases: watch %s: %w", path, err)
	}
	src.watcher = w

	return src, nil
}

func (s *Source) Current() *Set {
	return s.cur.Load()
}

// Reload перечитывает файл и атомарно подменяет набор.
func (s *Source) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("phrases: read %s: %w", s.path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return err
	}
	s.cur.Store(set)
	return nil
}

// Watch блокируется до отмены ctx. Для статического источника сразу выходит.
func (s *Source) Watch(ctx context.Context) {
	if s.watcher == nil {
		return
	}

	log.Printf("[phrases] watching %s", s.path)
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// даём редактору дописать файл
			time.Sleep(100 * time.Millisecond)

			if err := s.Reload(); err != nil {
				log.Printf("[phrases] reload failed, keeping previous set: %v", err)
				continue
			}
			log.Printf("[phrases] reloaded %s", s.path)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[phrases] watcher error: %v", err)
		}
	}
}

func (s *Source) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
