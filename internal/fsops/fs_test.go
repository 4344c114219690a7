package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAferoFS_AtomicWrite(t *testing.T) {
	tests := []struct {
		name string
		fs   func(t *testing.T) (*AferoFS, string)
	}{
		{
			name: "memory filesystem",
			fs: func(t *testing.T) (*AferoFS, string) {
				return NewMemFS(), "/data"
			},
		},
		{
			name: "os filesystem",
			fs: func(t *testing.T) (*AferoFS, string) {
				return NewOsFS(), t.TempDir()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, root := tt.fs(t)
			path := filepath.Join(root, "nested", "storage.json")

			if err := fs.AtomicWrite(path, []byte(`{"a":"1"}`), 0644); err != nil {
				t.Fatalf("AtomicWrite() error = %v", err)
			}

			data, err := fs.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(data) != `{"a":"1"}` {
				t.Errorf("ReadFile() = %q, want %q", data, `{"a":"1"}`)
			}

			// Overwrite replaces content entirely
			if err := fs.AtomicWrite(path, []byte(`{}`), 0644); err != nil {
				t.Fatalf("second AtomicWrite() error = %v", err)
			}
			data, err = fs.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(data) != `{}` {
				t.Errorf("ReadFile() after overwrite = %q, want %q", data, `{}`)
			}
		})
	}
}

func TestAferoFS_Exists(t *testing.T) {
	fs := NewMemFS()

	exists, err := fs.Exists("/missing.json")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for missing file")
	}

	if err := fs.AtomicWrite("/present.json", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	exists, err = fs.Exists("/present.json")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for written file")
	}
}

func TestAferoFS_ReadFileMissing(t *testing.T) {
	fs := NewMemFS()

	_, err := fs.ReadFile("/nope.json")
	if !os.IsNotExist(err) {
		t.Errorf("ReadFile() error = %v, want not-exist error", err)
	}
}

func TestAferoFS_Remove(t *testing.T) {
	fs := NewMemFS()
	if err := fs.AtomicWrite("/dir/file", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := fs.Remove("/dir/file"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	exists, _ := fs.Exists("/dir/file")
	if exists {
		t.Error("file still exists after Remove()")
	}

	if err := fs.Remove("/dir/file"); !os.IsNotExist(err) {
		t.Errorf("Remove() of missing file error = %v, want not-exist error", err)
	}
}
