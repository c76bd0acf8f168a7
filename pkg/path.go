package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// Prefix is the base name of the running executable, used for the
// configuration directory and environment variable names. A dlv debug
// binary maps to [Name] and leading dots are removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	id = regexp.MustCompile(`^__debug_bin\d*$`).ReplaceAllString(id, Name)
	id = strings.TrimLeft(id, ".")

	if id == "" {
		return Name
	}

	return id
})

// EnvPrefix returns the prefix of the environment variables the command
// reads, e.g. "RTM_".
func EnvPrefix() string {
	return strings.ToUpper(regexp.MustCompile(`\W`).ReplaceAllString(Prefix(), "_")) + "_"
}

// ConfigDir returns the directory holding the configuration file and
// variables files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
})

// CacheDir returns the directory for transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
})

func userDir(lookup func() (string, error), fallback string) string {
	if dir, err := lookup(); err == nil {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, fallback)
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}

// SearchPath returns the directories searched, in order, for a file named
// without a directory component: the entries of the PATH variable under
// [EnvPrefix] (e.g. RTM_PATH), then the working directory, then
// [ConfigDir]. Only existing directories are returned.
func SearchPath() []string {
	sep := string(os.PathListSeparator)

	list := mung.Make(
		mung.WithSubjectItems(strings.Join([]string{".", ConfigDir()}, sep)),
		mung.WithDelim(sep),
		mung.WithPrefixItems(filepath.SplitList(os.Getenv(EnvPrefix()+"PATH"))...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

// Find resolves name against [SearchPath] unless it contains a directory
// component or exists as given. It returns name unchanged when no
// directory holds it.
func Find(name string) string {
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return name
	}

	if _, err := os.Stat(name); err == nil {
		return name
	}

	for _, dir := range SearchPath() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return name
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
