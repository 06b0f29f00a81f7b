package vendorapi

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bedirhantong/renart-vendor-panel/pkg/idx"
	"github.com/bedirhantong/renart-vendor-panel/pkg/panelsdk"
)

var (
	errNotFound    = errors.New("not found")
	errEmailTaken  = errors.New("email already registered")
	errTokenExpiry = errors.New("refresh token expired")
)

type vendorRecord struct {
	Vendor       panelsdk.Vendor
	PasswordHash string
	StoreID      string
}

type productRecord struct {
	Product   panelsdk.Product
	StoreID   string
	Favorites int
}

type refreshRecord struct {
	VendorID  string
	ExpiresAt time.Time
}

// memStore is the backend's in-memory state. All methods are safe for
// concurrent use and return copies.
type memStore struct {
	mu       sync.RWMutex
	vendors  map[string]*vendorRecord // by ID
	emails   map[string]string        // lower-cased email -> vendor ID
	stores   map[string]*panelsdk.StoreProfile
	products map[string]*productRecord
	refresh  map[string]refreshRecord // token fingerprint -> owner
}

func newMemStore() *memStore {
	return &memStore{
		vendors:  make(map[string]*vendorRecord),
		emails:   make(map[string]string),
		stores:   make(map[string]*panelsdk.StoreProfile),
		products: make(map[string]*productRecord),
		refresh:  make(map[string]refreshRecord),
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *memStore) createVendor(v panelsdk.Vendor, passwordHash string, store panelsdk.StoreProfile) (panelsdk.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normaliseEmail(v.Email)
	if _, ok := m.emails[key]; ok {
		return panelsdk.Vendor{}, errEmailTaken
	}

	v.ID = idx.New().String()
	v.Email = key
	store.ID = idx.New().String()
	store.Email = key

	m.vendors[v.ID] = &vendorRecord{Vendor: v, PasswordHash: passwordHash, StoreID: store.ID}
	m.emails[key] = v.ID
	m.stores[store.ID] = &store
	return v, nil
}

func (m *memStore) vendorByEmail(email string) (vendorRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[normaliseEmail(email)]
	if !ok {
		return vendorRecord{}, errNotFound
	}
	return *m.vendors[id], nil
}

func (m *memStore) vendorByID(id string) (vendorRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.vendors[id]
	if !ok {
		return vendorRecord{}, errNotFound
	}
	return *rec, nil
}

func (m *memStore) setPassword(vendorID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.vendors[vendorID]
	if !ok {
		return errNotFound
	}
	rec.PasswordHash = hash
	return nil
}

func (m *memStore) store(id string) (panelsdk.StoreProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stores[id]
	if !ok {
		return panelsdk.StoreProfile{}, errNotFound
	}
	return *s, nil
}

func (m *memStore) updateStore(id string, u panelsdk.ProfileUpdate) (panelsdk.StoreProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stores[id]
	if !ok {
		return panelsdk.StoreProfile{}, errNotFound
	}
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.LogoURL != nil {
		s.LogoURL = *u.LogoURL
	}
	return *s, nil
}

func (m *memStore) saveRefresh(fingerprint, vendorID string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[fingerprint] = refreshRecord{VendorID: vendorID, ExpiresAt: expiresAt}
}

// consumeRefresh removes a refresh token and returns its owner. Tokens are
// single use.
func (m *memStore) consumeRefresh(fingerprint string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.refresh[fingerprint]
	if !ok {
		return "", errNotFound
	}
	delete(m.refresh, fingerprint)
	if !now.Before(rec.ExpiresAt) {
		return "", errTokenExpiry
	}
	return rec.VendorID, nil
}

func (m *memStore) revokeRefresh(vendorID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for fp, rec := range m.refresh {
		if rec.VendorID == vendorID {
			delete(m.refresh, fp)
			n++
		}
	}
	return n
}

func (m *memStore) insertProduct(storeID string, p panelsdk.Product, favorites int) panelsdk.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products[p.ID] = &productRecord{Product: p, StoreID: storeID, Favorites: favorites}
	return p
}

func (m *memStore) product(storeID, id string) (productRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.products[id]
	if !ok || rec.StoreID != storeID {
		return productRecord{}, errNotFound
	}
	return *rec, nil
}

func (m *memStore) updateProduct(storeID, id string, fn func(*panelsdk.Product)) (panelsdk.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.products[id]
	if !ok || rec.StoreID != storeID {
		return panelsdk.Product{}, errNotFound
	}
	fn(&rec.Product)
	return rec.Product, nil
}

func (m *memStore) deleteProduct(storeID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.products[id]
	if !ok || rec.StoreID != storeID {
		return errNotFound
	}
	delete(m.products, id)
	return nil
}

// storeProducts returns a store's products, newest first.
func (m *memStore) storeProducts(storeID string) []productRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []productRecord
	for _, rec := range m.products {
		if rec.StoreID == storeID {
			out = append(out, *rec)
		}
	}
	slices.SortFunc(out, func(a, b productRecord) int {
		if c := b.Product.CreatedAt.Compare(a.Product.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Product.ID, a.Product.ID)
	})
	return out
}
