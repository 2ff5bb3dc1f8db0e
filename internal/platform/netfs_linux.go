//go:build linux

package platform

import "golang.org/x/sys/unix"

// statfs magic numbers of network filesystems
const (
	nfsMagic  = 0x6969
	smbMagic  = 0x517B
	cifsMagic = 0xFF534D42
	smb2Magic = 0xFE534D42
	ncpMagic  = 0x564C
	afsMagic  = 0x5346414F
	codaMagic = 0x73757245
	v9fsMagic = 0x01021997
	cephMagic = 0x00C36400
)

// IsNetworkFS reports whether path is on a network filesystem.
func IsNetworkFS(path string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false, err
	}
	//nolint:gosec // G115: f_type is a 32-bit magic on every arch
	switch uint32(st.Type) {
	case nfsMagic, smbMagic, cifsMagic, smb2Magic, ncpMagic, afsMagic, codaMagic, v9fsMagic, cephMagic:
		return true, nil
	}
	return false, nil
}
