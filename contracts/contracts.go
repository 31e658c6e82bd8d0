/*
Package contracts provides access to compiled contracts of the repository.

Compiled contract is a directory holding NEF file and JSON manifest as
produced by `neo-go contract compile`:

	ledger/contract.nef
	ledger/manifest.json
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// LedgerDir is a default directory of the compiled Ledger contract.
	LedgerDir = "ledger"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the file system.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	// ErrInvalidNEF is returned when the NEF file can not be decoded.
	ErrInvalidNEF = errors.New("invalid NEF")
	// ErrInvalidManifest is returned when the manifest can not be decoded.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Read reads compiled contract from the dir of the given file system.
func Read(fsys fs.FS, dir string) (Contract, error) {
	c, err := readContractFromDir(fsys, dir)
	if err != nil {
		return c, fmt.Errorf("read contract %s: %w", dir, err)
	}

	return c, nil
}

// ReadFiles reads compiled contract from the given NEF and manifest files.
func ReadFiles(fsys fs.FS, nefPath, manifestPath string) (Contract, error) {
	var c Contract

	fNEF, err := fsys.Open(nefPath)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(manifestPath)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", ErrInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	return c, nil
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	// fs.FS paths always use "/", so filepath.Join() is not applicable.
	return ReadFiles(fsys, dir+"/"+nefName, dir+"/"+manifestName)
}
