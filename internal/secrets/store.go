// Package secrets is a lightweight per-user secret file (0600) with
// AES-GCM obfuscation. Not a replacement for OS keychains, but keeps
// the session signing key out of plain-text config.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

const (
	fileName       = "keys.json"
	signingKeyName = "session-signing"
	signingKeyLen  = 32
)

type secretFile struct {
	Keys map[string]string `json:"keys"` // name -> base64(ciphertext)
}

// Store reads and writes secrets under one directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// SigningKey returns the key used to sign session tokens, generating
// and persisting a fresh one on first use.
func (s *Store) SigningKey() ([]byte, error) {
	if key, err := s.fetch(signingKeyName); err == nil {
		return key, nil
	}
	key := make([]byte, signingKeyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := s.store(signingKeyName, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *Store) store(name string, value []byte) error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	sf, _ := load(path)
	if sf.Keys == nil {
		sf.Keys = map[string]string{}
	}
	ct, err := encrypt(value)
	if err != nil {
		return err
	}
	sf.Keys[name] = base64.StdEncoding.EncodeToString(ct)
	return save(path, sf)
}

func (s *Store) fetch(name string) ([]byte, error) {
	path, err := s.filePath()
	if err != nil {
		return nil, err
	}
	sf, err := load(path)
	if err != nil {
		return nil, err
	}
	enc, ok := sf.Keys[name]
	if !ok {
		return nil, fmt.Errorf("key not found")
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, err
	}
	return decrypt(raw)
}

func (s *Store) filePath() (string, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil { // restrict directory
		return "", err
	}
	return filepath.Join(s.dir, fileName), nil
}

func load(path string) (secretFile, error) {
	var sf secretFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return secretFile{}, nil
		}
		return sf, err
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return sf, err
	}
	return sf, nil
}

func save(path string, sf secretFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func masterKey() ([]byte, error) {
	user := os.Getenv("USER")
	base := fmt.Sprintf("stockdeck-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:], nil
}

func encrypt(plain []byte) ([]byte, error) {
	key, err := masterKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	key, err := masterKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
