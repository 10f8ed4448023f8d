package config

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// FixOwnership hands files the editor creates under the home directory back
// to the home directory's owner when revim runs as root (sudo, dev
// containers). Directories between path and home that are still owned by
// someone else are fixed too. Anything outside home is left alone.
func FixOwnership(path string) {
	if os.Getuid() != 0 {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return
	}
	uid, gid, ok := ownerOf(home)
	if !ok || uid == 0 {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil || !within(home, abs) {
		return
	}

	_ = os.Lchown(abs, uid, gid)
	for dir := filepath.Dir(abs); within(home, dir) && dir != home; dir = filepath.Dir(dir) {
		if owner, _, ok := ownerOf(dir); !ok || owner == uid {
			break
		}
		_ = os.Lchown(dir, uid, gid)
	}
}

func ownerOf(path string) (uid, gid int, ok bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, false
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return int(st.Uid), int(st.Gid), true
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
