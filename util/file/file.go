package file

import (
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/SCP002/jsonexraw"
	"github.com/cockroachdb/errors"
)

// Exists returns true if <path> can be accessed.
//
// Any error (not found, permission denied, etc.) results in false.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadText returns content of the file at <path>.
//
// Never panics, any failure is returned in ReadResult.Err.
func ReadText(path string) ReadResult[string] {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return fail[string](errors.Wrap(err, "Read text file"))
	}
	return ok(string(bytes))
}

// ReadTextSafe returns content of the file at <path> or <fallback> if it can not be read
func ReadTextSafe(path, fallback string) string {
	res := ReadText(path)
	if !res.Success {
		return fallback
	}
	return res.Data
}

// ReadJSON returns content of the file at <path> decoded as JSON into <T>.
//
// Syntax errors are returned the same way as I/O errors.
func ReadJSON[T any](path string) ReadResult[T] {
	res := ReadText(path)
	if !res.Success {
		return fail[T](res.Err)
	}
	var data T
	if err := json.Unmarshal([]byte(res.Data), &data); err != nil {
		return fail[T](errors.Wrap(err, "Decode JSON file"))
	}
	return ok(data)
}

// EnsureDir creates directory <path> with all parents.
//
// Already existing directory is not an error.
func EnsureDir(path string) error {
	err := os.MkdirAll(path, 0755)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return errors.Wrap(err, "Create directory")
	}
	return nil
}

// WriteText writes <content> to the file at <path>, creating parent directories if needed
func WriteText(path, content string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrap(err, "Write text file")
	}
	return nil
}

// Copy copies <src> file path to <dst> file path
func Copy(src, dst string) error {
	res := ReadText(src)
	if !res.Success {
		return res.Err
	}
	return WriteText(dst, res.Data)
}
