package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/cards"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/vaults"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMasterKey(t *testing.T) []byte {
	t.Helper()
	key, err := cryptox.GenerateSecretKey()
	require.NoError(t, err)
	return key
}

// newTxDB returns a sqlmock DB that accepts any sequence of transactions.
// Repositories are faked, so only Begin/Commit/Rollback reach the driver.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 64; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// store is an in-memory stand-in for the database. It enforces the same
// ownership scoping, name uniqueness and cascades as the schema.
type store struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]models.User
	vaults   map[int64]models.Vault
	accounts map[int64]models.Account
	cards    map[int64]models.Card
	failWith error
	// writeErr, when set, is returned by user Create and Update only.
	writeErr error
}

func newStore() *store {
	return &store{
		users:    map[int64]models.User{},
		vaults:   map[int64]models.Vault{},
		accounts: map[int64]models.Account{},
		cards:    map[int64]models.Card{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type fakeManager struct{ s *store }

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository              { return &fakeUsers{m.s} }
func (m *fakeManager) Vaults(dbx.DBTX) vaults.Repository            { return &fakeVaults{m.s} }
func (m *fakeManager) Accounts(dbx.DBTX) accounts.Repository        { return &fakeAccounts{m.s} }
func (m *fakeManager) Cards(dbx.DBTX) cards.Repository              { return &fakeCards{m.s} }

// --- users ---

type fakeUsers struct{ s *store }

func (r *fakeUsers) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	if r.s.writeErr != nil {
		return nil, r.s.writeErr
	}
	for _, e := range r.s.users {
		if e.Email == u.Email || e.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (r *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *fakeUsers) GetByUserName(_ context.Context, name string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.UserName == name })
}

func (r *fakeUsers) GetByLogin(_ context.Context, login string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == login || u.UserName == login })
}

func (r *fakeUsers) Update(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.writeErr != nil {
		return nil, r.s.writeErr
	}
	if _, ok := r.s.users[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	r.s.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (r *fakeUsers) UpdateProfileURL(_ context.Context, id int64, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.ProfileURL = url
	r.s.users[id] = u
	return nil
}

func (r *fakeUsers) UpdateTOTP(_ context.Context, id int64, secret string, enabled bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.TOTPSecret, u.TOTPEnabled = secret, enabled
	r.s.users[id] = u
	return nil
}

func (r *fakeUsers) Delete(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.s.users, id)
	for k, v := range r.s.vaults {
		if v.UserID == id {
			delete(r.s.vaults, k)
		}
	}
	for k, a := range r.s.accounts {
		if a.UserID == id {
			delete(r.s.accounts, k)
		}
	}
	for k, c := range r.s.cards {
		if c.UserID == id {
			delete(r.s.cards, k)
		}
	}
	return &u, nil
}

// --- vaults ---

type fakeVaults struct{ s *store }

func (r *fakeVaults) Create(_ context.Context, v *models.Vault) (*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	for _, e := range r.s.vaults {
		if e.UserID == v.UserID && e.Name == v.Name {
			return nil, common.ErrorAlreadyExists
		}
	}
	v.ID = r.s.id()
	r.s.vaults[v.ID] = *v
	out := *v
	return &out, nil
}

func (r *fakeVaults) GetByID(_ context.Context, id, userID int64) (*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	v, ok := r.s.vaults[id]
	if !ok || v.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &v, nil
}

func (r *fakeVaults) GetByName(_ context.Context, name string, userID int64) (*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	for _, v := range r.s.vaults {
		if v.Name == name && v.UserID == userID {
			return &v, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeVaults) List(_ context.Context, userID int64) ([]*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := make([]*models.Vault, 0)
	for _, id := range sortedKeys(r.s.vaults) {
		if v := r.s.vaults[id]; v.UserID == userID {
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r *fakeVaults) Update(_ context.Context, v *models.Vault) (*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.vaults[v.ID]
	if !ok || e.UserID != v.UserID {
		return nil, common.ErrorNotFound
	}
	r.s.vaults[v.ID] = *v
	out := *v
	return &out, nil
}

func (r *fakeVaults) Delete(_ context.Context, id, userID int64) (*models.Vault, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vaults[id]
	if !ok || v.UserID != userID {
		return nil, common.ErrorNotFound
	}
	delete(r.s.vaults, id)
	for k, a := range r.s.accounts {
		if a.VaultID == id {
			delete(r.s.accounts, k)
		}
	}
	for k, c := range r.s.cards {
		if c.VaultID == id {
			delete(r.s.cards, k)
		}
	}
	return &v, nil
}

// --- accounts ---

type fakeAccounts struct{ s *store }

func (r *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	for _, e := range r.s.accounts {
		if e.UserID == a.UserID && e.Name == a.Name {
			return nil, common.ErrorAlreadyExists
		}
	}
	a.ID = r.s.id()
	r.s.accounts[a.ID] = *a
	out := *a
	return &out, nil
}

func (r *fakeAccounts) GetByID(_ context.Context, id, userID int64) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok || a.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *fakeAccounts) GetByName(_ context.Context, name string, userID int64) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.Name == name && a.UserID == userID {
			return &a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeAccounts) List(_ context.Context, userID, vaultID int64) ([]*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWith != nil {
		return nil, r.s.failWith
	}
	out := make([]*models.Account, 0)
	for _, id := range sortedKeys(r.s.accounts) {
		a := r.s.accounts[id]
		if a.UserID == userID && (vaultID == 0 || a.VaultID == vaultID) {
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r *fakeAccounts) Update(_ context.Context, a *models.Account) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.accounts[a.ID]
	if !ok || e.UserID != a.UserID {
		return nil, common.ErrorNotFound
	}
	r.s.accounts[a.ID] = *a
	out := *a
	return &out, nil
}

func (r *fakeAccounts) Delete(_ context.Context, id, userID int64) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok || a.UserID != userID {
		return nil, common.ErrorNotFound
	}
	delete(r.s.accounts, id)
	return &a, nil
}

// --- cards ---

type fakeCards struct{ s *store }

func (r *fakeCards) Create(_ context.Context, c *models.Card) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.cards {
		if e.UserID == c.UserID && e.Name == c.Name {
			return nil, common.ErrorAlreadyExists
		}
	}
	c.ID = r.s.id()
	r.s.cards[c.ID] = *c
	out := *c
	return &out, nil
}

func (r *fakeCards) GetByID(_ context.Context, id, userID int64) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cards[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *fakeCards) GetByName(_ context.Context, name string, userID int64) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.cards {
		if c.Name == name && c.UserID == userID {
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeCards) List(_ context.Context, userID, vaultID int64) ([]*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Card, 0)
	for _, id := range sortedKeys(r.s.cards) {
		c := r.s.cards[id]
		if c.UserID == userID && (vaultID == 0 || c.VaultID == vaultID) {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeCards) Update(_ context.Context, c *models.Card) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.cards[c.ID]
	if !ok || e.UserID != c.UserID {
		return nil, common.ErrorNotFound
	}
	r.s.cards[c.ID] = *c
	out := *c
	return &out, nil
}

func (r *fakeCards) Delete(_ context.Context, id, userID int64) (*models.Card, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cards[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	delete(r.s.cards, id)
	return &c, nil
}

// --- storage ---

type fakeAvatars struct {
	putErr error
}

func (f *fakeAvatars) PresignPut(_ context.Context, userID int64) (string, string, error) {
	if f.putErr != nil {
		return "", "", f.putErr
	}
	return "avatars/1/abc", "https://s3.test/put?sig", nil
}

func (f *fakeAvatars) PresignGet(_ context.Context, key string) (string, error) {
	return "https://s3.test/get/" + key + "?sig", nil
}

func (f *fakeAvatars) ObjectURL(key string) string {
	return "https://s3.test/bucket/" + key
}

func (f *fakeAvatars) KeyFromURL(u string) (string, bool) {
	const prefix = "https://s3.test/bucket/"
	if len(u) <= len(prefix) || u[:len(prefix)] != prefix {
		return "", false
	}
	return u[len(prefix):], true
}

// --- fixture ---

type fixture struct {
	store    *store
	db       *sql.DB
	keys     *Keyring
	tokens   *auth.TokenManager
	avatars  *fakeAvatars
	users    *UserService
	vaults   *VaultService
	accounts *AccountService
	cards    *CardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := newStore()
	db := newTxDB(t)
	m := &fakeManager{st}
	keys := NewKeyring(newMasterKey(t))
	tokens := auth.NewTokenManager([]byte("jwt-secret"), 0)
	avatars := &fakeAvatars{}

	us, err := NewUserService(db, m, cryptox.NewPasswordHasher(bcrypt.MinCost), keys, tokens, avatars, "passvault")
	require.NoError(t, err)

	return &fixture{
		store:    st,
		db:       db,
		keys:     keys,
		tokens:   tokens,
		avatars:  avatars,
		users:    us,
		vaults:   NewVaultService(db, m),
		accounts: NewAccountService(db, m, keys),
		cards:    NewCardService(db, m, keys),
	}
}

// signup registers a user and returns the stored record.
func (f *fixture) signup(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.users.Signup(context.Background(), SignupInput{
		UserName: name,
		Email:    name + "@example.com",
		Password: "Secret123456.",
	})
	require.NoError(t, err)
	return f.reload(t, u.ID)
}

func (f *fixture) reload(t *testing.T, id int64) *models.User {
	t.Helper()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	u, ok := f.store.users[id]
	require.True(t, ok)
	return &u
}

func (f *fixture) vault(t *testing.T, owner *models.User, name string) *models.Vault {
	t.Helper()
	v, err := f.vaults.Create(context.Background(), owner, VaultInput{Name: name})
	require.NoError(t, err)
	return v
}

// requireKind asserts err is a *common.Error of kind with message msg.
func requireKind(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	require.ErrorIs(t, err, kind)
	var e *common.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, msg, e.Message)
}
