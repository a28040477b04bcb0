package repo

import (
	"crypto/ecdsa"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// SenderKey returns the configured signing key, or nil when the sender is a
// node-managed account.
func (r *Repo) SenderKey(password string) (*ecdsa.PrivateKey, error) {
	sender := r.Config.Sender
	if sender.PrivateKey != "" {
		sk, err := ethcrypto.HexToECDSA(strings.TrimPrefix(sender.PrivateKey, "0x"))
		if err != nil {
			return nil, errors.Wrap(err, "decode sender private key error")
		}
		return sk, nil
	}
	if sender.Keystore == "" {
		return nil, nil
	}

	keystorePath := sender.Keystore
	if !filepath.IsAbs(keystorePath) {
		keystorePath = filepath.Join(r.RepoRoot, keystorePath)
	}
	raw, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, errors.Wrapf(err, "read sender keystore %s", keystorePath)
	}
	key, err := keystore.DecryptKey(raw, password)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt sender keystore")
	}
	return key.PrivateKey, nil
}

// SenderAddress resolves the sender identity: the signing key wins over the
// configured address.
func (r *Repo) SenderAddress(sk *ecdsa.PrivateKey) (ethcommon.Address, error) {
	if sk != nil {
		addr := ethcrypto.PubkeyToAddress(sk.PublicKey)
		if r.Config.Sender.Address != "" && !strings.EqualFold(r.Config.Sender.Address, addr.String()) {
			return ethcommon.Address{}, errors.Errorf("sender.address %s does not match signing key %s", r.Config.Sender.Address, addr)
		}
		return addr, nil
	}
	if !ethcommon.IsHexAddress(r.Config.Sender.Address) {
		return ethcommon.Address{}, errors.Errorf("invalid sender.address %q", r.Config.Sender.Address)
	}
	return ethcommon.HexToAddress(r.Config.Sender.Address), nil
}
