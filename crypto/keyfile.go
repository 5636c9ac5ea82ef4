package crypto

import (
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/suprasig"
	"github.com/iov-one/suprasig/errors"
)

// KeyPerm is the file permissions for saved private keys
const KeyPerm = 0600

// EncodePrivateKey returns the hex encoded seed of the key, that can be
// saved and later loaded with ParsePrivateKey.
func EncodePrivateKey(key *PrivateKey) string {
	return suprasig.EncodeHex(key.Seed())
}

// LoadPrivateKey will load a private key from a file, which was previously
// written by SavePrivateKey. Surrounding white space is ignored.
func LoadPrivateKey(filename string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "read key file: %s", err)
	}
	key, err := ParsePrivateKey(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrapf(err, "key file %q", filename)
	}
	return key, nil
}

// SavePrivateKey will encode the private key in hex and write to the named
// file. It will refuse to overwrite a file, unless forced to.
func SavePrivateKey(key *PrivateKey, filename string, force bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	fd, err := os.OpenFile(filename, flags, KeyPerm)
	switch {
	case os.IsExist(err):
		return errors.Wrapf(errors.ErrDuplicate, "refusing to overwrite %s", filename)
	case err != nil:
		return errors.Wrapf(errors.ErrInput, "create key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.WriteString(EncodePrivateKey(key) + "\n"); err != nil {
		return errors.Wrapf(errors.ErrInput, "write key file: %s", err)
	}
	return fd.Close()
}
