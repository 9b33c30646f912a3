package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/epicevents/crm-api/internal/auth"
	"github.com/epicevents/crm-api/internal/database"
	"github.com/epicevents/crm-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the plaintext password every fixture user is created with.
const TestPassword = "s3cure-passw0rd"

var seq atomic.Uint64

// testPasswordHash is computed once; bcrypt is too slow to rehash per fixture.
var testPasswordHash string

func init() {
	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		panic(err)
	}
	testPasswordHash = hash
}

// SetupTestDB opens a fresh in-memory SQLite database and migrates the schema.
// Each call gets its own database, so tests never see each other's rows.
func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// An in-memory SQLite database lives and dies with its connection.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateTestUser creates a user with the given role and a unique name and email.
func CreateTestUser(t *testing.T, db *gorm.DB, role domain.Role) *domain.User {
	n := seq.Add(1)
	user := &domain.User{
		Fullname:     fmt.Sprintf("Test %s %d", role, n),
		Email:        fmt.Sprintf("%s%d@test.example", role, n),
		Phone:        "12345678",
		Role:         role,
		PasswordHash: testPasswordHash,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestClient creates a client owned by the given sales contact.
func CreateTestClient(t *testing.T, db *gorm.DB, salesContactID uint) *domain.Client {
	n := seq.Add(1)
	client := &domain.Client{
		Fullname:       fmt.Sprintf("Test Client %d", n),
		Email:          fmt.Sprintf("client%d@test.example", n),
		Phone:          "87654321",
		Company:        "Test Company AS",
		SalesContactID: salesContactID,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestContract creates a contract for the client with the given status.
func CreateTestContract(t *testing.T, db *gorm.DB, clientID, salesContactID uint, status domain.ContractStatus) *domain.Contract {
	contract := &domain.Contract{
		ClientID:        clientID,
		SalesContactID:  salesContactID,
		TotalAmount:     5000,
		RemainingAmount: 5000,
		Status:          status,
	}
	require.NoError(t, db.Create(contract).Error)
	return contract
}

// CreateTestEvent creates an event under the contract, unassigned to support.
func CreateTestEvent(t *testing.T, db *gorm.DB, contract *domain.Contract) *domain.Event {
	n := seq.Add(1)
	start := time.Date(2026, 6, 4, 13, 0, 0, 0, time.UTC)
	event := &domain.Event{
		Title:          fmt.Sprintf("Test Event %d", n),
		ContractID:     contract.ID,
		ClientID:       contract.ClientID,
		SalesContactID: contract.SalesContactID,
		EventStart:     start,
		EventEnd:       start.Add(6 * time.Hour),
		Location:       "53 Rue du Château, Candé-sur-Beuvron",
		Attendees:      75,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

// AuthContext returns a context carrying the user as authenticated principal,
// the way the authentication middleware would set it up.
func AuthContext(user *domain.User) context.Context {
	return auth.WithPrincipal(context.Background(), auth.PrincipalFromUser(user))
}
