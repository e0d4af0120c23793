// Package vault stores browser session cookies as encrypted, expiring
// bundles on disk. Every failure mode on the read path (missing key,
// corrupt ciphertext, expired bundle) resolves to "no session" so that
// callers only ever branch between reuse and fresh login.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/pbkdf2"

	"github.com/linkout/linkout/internal/logger"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000

	// BundleTTL is the maximum age of a stored bundle before it is
	// discarded on load.
	BundleTTL = 24 * time.Hour

	keyFileName    = "encryption.key"
	keyringService = "linkout"
	keyringUser    = "vault-passphrase"

	// PassphraseEnv overrides every other passphrase source when set.
	PassphraseEnv = "LINKOUT_VAULT_PASSPHRASE"
)

// Cookie carries the fields needed to re-apply a browser cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain,omitempty"`
	Path     string  `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Bundle is the plaintext payload of a credential file.
type Bundle struct {
	Timestamp int64    `json:"timestamp"`
	Cookies   []Cookie `json:"cookies"`
}

// Vault encrypts cookie bundles to one file per platform under dir.
type Vault struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// bundleFile is the on-disk envelope around the encrypted payload.
type bundleFile struct {
	Salt      string    `json:"salt"`
	Encrypted string    `json:"encrypted"`
	Version   int       `json:"version"`
	Modified  time.Time `json:"modified"`
}

// New opens (creating if needed) a vault rooted at dir.
func New(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	passphrase, err := resolvePassphrase(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault passphrase: %w", err)
	}

	return &Vault{dir: dir, passphrase: passphrase}, nil
}

// Save encrypts the cookies with a fresh timestamp and writes them
// atomically to the platform's bundle file. A failed save leaves any
// previous bundle intact.
func (v *Vault) Save(platform string, cookies []Cookie) error {
	return v.save(platform, Bundle{
		Timestamp: time.Now().Unix(),
		Cookies:   cookies,
	})
}

func (v *Vault) save(platform string, bundle Bundle) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	plaintext, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(v.passphrase), salt, iterations, keySize, sha256.New)
	encrypted, err := encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt bundle: %w", err)
	}

	content, err := json.MarshalIndent(bundleFile{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Encrypted: base64.StdEncoding.EncodeToString(encrypted),
		Version:   1,
		Modified:  time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bundle file: %w", err)
	}

	// Write-to-temp-then-rename so a concurrent reader never observes
	// a half-written file.
	path := v.bundlePath(platform)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace bundle: %w", err)
	}

	logger.Debug("vault bundle saved", "platform", platform, "cookies", len(bundle.Cookies))
	return nil
}

// Load returns the platform's bundle if one exists, decrypts cleanly
// and has not expired. Every failure is absorbed: the second return is
// false and no error crosses the vault boundary. Expired bundles are
// deleted.
func (v *Vault) Load(platform string) (*Bundle, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	path := v.bundlePath(platform)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var file bundleFile
	if err := json.Unmarshal(content, &file); err != nil {
		logger.Debug("vault bundle unreadable", "platform", platform, "error", err)
		return nil, false
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		logger.Debug("vault bundle salt unreadable", "platform", platform, "error", err)
		return nil, false
	}
	encrypted, err := base64.StdEncoding.DecodeString(file.Encrypted)
	if err != nil {
		logger.Debug("vault bundle ciphertext unreadable", "platform", platform, "error", err)
		return nil, false
	}

	key := pbkdf2.Key([]byte(v.passphrase), salt, iterations, keySize, sha256.New)
	plaintext, err := decrypt(encrypted, key)
	if err != nil {
		logger.Debug("vault bundle decrypt failed", "platform", platform, "error", err)
		return nil, false
	}

	var bundle Bundle
	if err := json.Unmarshal(plaintext, &bundle); err != nil {
		logger.Debug("vault bundle parse failed", "platform", platform, "error", err)
		return nil, false
	}

	if time.Since(time.Unix(bundle.Timestamp, 0)) > BundleTTL {
		logger.Debug("vault bundle expired", "platform", platform, "issued_at", bundle.Timestamp)
		_ = os.Remove(path)
		return nil, false
	}

	return &bundle, true
}

// Delete removes the platform's bundle file, if any.
func (v *Vault) Delete(platform string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = os.Remove(v.bundlePath(platform))
}

func (v *Vault) bundlePath(platform string) string {
	return filepath.Join(v.dir, platform+"_cookies.json")
}

// resolvePassphrase finds or creates the per-installation passphrase.
// Order: environment variable, OS keychain, key file next to the
// bundles. The passphrase is generated once and never rotated; losing
// it makes existing bundles undecryptable, which Load treats as absent.
func resolvePassphrase(dir string) (string, error) {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return p, nil
	}

	if p, err := keyring.Get(keyringService, keyringUser); err == nil && p != "" {
		return p, nil
	}

	keyFile := filepath.Join(dir, keyFileName)
	if content, err := os.ReadFile(keyFile); err == nil && len(content) > 0 {
		return string(content), nil
	}

	p := generatePassphrase()

	// Prefer the OS keychain; headless hosts fall back to a key file.
	if err := keyring.Set(keyringService, keyringUser, p); err == nil {
		return p, nil
	}
	if err := os.WriteFile(keyFile, []byte(p), 0o600); err != nil {
		return "", fmt.Errorf("failed to save key file: %w", err)
	}
	return p, nil
}

func generatePassphrase() string {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}

// encrypt seals data with AES-256-GCM, nonce prepended.
func encrypt(plaintext, key []byte) ([]byte, error) {
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

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
