package credential

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// sealedFile is the on-disk layout when a passphrase is configured.
type sealedFile struct {
	Version int    `json:"v"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

const sealedVersion = 1

func isSealed(data []byte) bool {
	return gjson.GetBytes(data, "v").Exists() && gjson.GetBytes(data, "salt").Exists()
}

// FileSource 将凭证保存为本地 JSON 文件（0600），可选口令加密。
type FileSource struct {
	path       string
	passphrase []byte
}

// NewFileSource builds a file source. An empty passphrase stores plaintext JSON.
func NewFileSource(path, passphrase string) *FileSource {
	s := &FileSource{path: filepath.Clean(path)}
	if passphrase != "" {
		s.passphrase = []byte(passphrase)
	}
	return s
}

// Path returns the credential file path.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Load(_ context.Context) (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credential file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if s.passphrase != nil {
		if data, err = s.open(data); err != nil {
			return nil, err
		}
	} else if isSealed(data) {
		return nil, errors.New("credential file is encrypted; passphrase required")
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("parse credential file: %w", err)
	}
	if cred.IsZero() {
		return nil, nil
	}
	return &cred, nil
}

func (s *FileSource) Save(_ context.Context, cred Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	if s.passphrase != nil {
		if data, err = s.seal(data); err != nil {
			return err
		}
	}
	return s.writeAtomic(data)
}

func (s *FileSource) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

func (s *FileSource) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("prepare credential directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod credential file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credential file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

func (s *FileSource) deriveKey(salt []byte) ([]byte, error) {
	return scrypt.Key(s.passphrase, salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
}

func (s *FileSource) seal(plain []byte) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	key, err := s.deriveKey(salt)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return json.Marshal(sealedFile{
		Version: sealedVersion,
		Salt:    salt,
		Nonce:   nonce,
		Data:    aead.Seal(nil, nonce, plain, nil),
	})
}

func (s *FileSource) open(raw []byte) ([]byte, error) {
	var sealed sealedFile
	if err := json.Unmarshal(raw, &sealed); err != nil || sealed.Version != sealedVersion {
		return nil, fmt.Errorf("credential file is not encrypted with a supported format")
	}
	key, err := s.deriveKey(sealed.Salt)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(sealed.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("credential file has a malformed nonce")
	}
	plain, err := aead.Open(nil, sealed.Nonce, sealed.Data, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt credential file: wrong passphrase or corrupted file")
	}
	return plain, nil
}
