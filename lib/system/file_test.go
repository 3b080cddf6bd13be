package system

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

// populates a test workspace (tmp) with a src containing several files
func createSourceDir(t *testing.T) (tmp string, fcount int) {
	tmp, err := ioutil.TempDir("", "uitest-test")
	if err != nil {
		t.Skipf("unable to create tempdir: %s", err)
	}

	err = os.MkdirAll(filepath.Join(tmp, "nested"), 0750)
	if err != nil {
		t.Skipf("unable to create nested dir: %s", err)
	}

	fcount = 3
	for i, name := range []string{"a-result.json", "b-attachment.txt", "nested/c-result.json"} {
		content := []byte{byte('a' + i)}
		if err := ioutil.WriteFile(filepath.Join(tmp, name), content, 0640); err != nil {
			t.Skipf("unable to write %s: %s", name, err)
		}
	}
	return tmp, fcount
}

func TestWriteFileReplacesContents(t *testing.T) {
	tmp, _ := createSourceDir(t)
	defer os.RemoveAll(tmp)

	path := filepath.Join(tmp, "a-result.json")
	if err := WriteFile(path, []byte(`{"status":"passed"}`)); err != nil {
		t.Fatalf("write %q failed: %s", path, err)
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"status":"passed"}` {
		t.Errorf("unexpected contents %q", data)
	}
}

func TestListFilesRecurses(t *testing.T) {
	tmp, fcount := createSourceDir(t)
	defer os.RemoveAll(tmp)

	files, err := ListFiles(tmp)
	if err != nil {
		t.Fatalf("list %q failed: %s", tmp, err)
	}
	if len(files) != fcount {
		t.Fatalf("expected %v files, got %v", fcount, files)
	}
	if files[2].Path != "nested/c-result.json" || files[2].Size != 1 {
		t.Errorf("unexpected entry %+v", files[2])
	}
}

func TestRemoveContentsKeepsDir(t *testing.T) {
	tmp, _ := createSourceDir(t)
	defer os.RemoveAll(tmp)

	if err := RemoveContents(tmp); err != nil {
		t.Fatalf("remove contents of %q failed: %s", tmp, err)
	}
	files, err := ListFiles(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty directory, got %v", files)
	}
	if _, err := os.Stat(tmp); err != nil {
		t.Errorf("expected %q to survive: %v", tmp, err)
	}
}
