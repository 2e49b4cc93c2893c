package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/partnerdesk/internal/adapter/httpapi"
	"github.com/simaogato/partnerdesk/internal/adapter/repository/sqlite"
	"github.com/simaogato/partnerdesk/internal/adapter/rest"
	"github.com/simaogato/partnerdesk/internal/domain"
	"github.com/simaogato/partnerdesk/internal/usecase/seeder"
)

func newCollaborator(t *testing.T, token string) *httptest.Server {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "gateway.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	partners := sqlite.NewPartnerRepository(db)
	clients := sqlite.NewClientRepository(db)
	require.NoError(t, seeder.NewDemoSeeder(partners, clients, nil).Seed(context.Background()))

	srv := httptest.NewServer(httpapi.NewRouter(httpapi.Options{Partners: partners, Clients: clients, APIToken: token}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGateway_AgainstCollaborator(t *testing.T) {
	ctx := context.Background()
	srv := newCollaborator(t, "tok")
	gw := rest.NewGateway(srv.URL+"/", "tok", time.Second, nil)

	t.Run("partners", func(t *testing.T) {
		partners, err := gw.ListPartners(ctx)
		require.NoError(t, err)
		require.Len(t, partners, 1)
		assert.True(t, partners[0].Matches("joao@bank.com", "123456"))
	})

	t.Run("clients", func(t *testing.T) {
		clients, err := gw.ListClients(ctx, seeder.DemoPartnerID)
		require.NoError(t, err)
		assert.Len(t, clients, 3)
	})

	t.Run("missing client is nil", func(t *testing.T) {
		c, err := gw.GetClient(ctx, "does-not-exist")
		assert.NoError(t, err)
		assert.Nil(t, c)
	})

	var id string
	t.Run("create", func(t *testing.T) {
		founded := "01/02/2001"
		created, err := gw.CreateClient(ctx, domain.Client{
			PartnerID:      seeder.DemoPartnerID,
			Name:           "Beta SA",
			Document:       "11444777000161",
			FoundationDate: &founded,
			MonthlyIncome:  decimal.RequireFromString("12000.99"),
			Balance:        decimal.Zero,
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.True(t, created.MonthlyIncome.Equal(decimal.RequireFromString("12000.99")))
		id = created.ID
	})

	t.Run("update balance is absolute and exact", func(t *testing.T) {
		updated, err := gw.UpdateClient(ctx, id, domain.BalancePatch(decimal.RequireFromString("0.30")))
		require.NoError(t, err)
		assert.Equal(t, "0.3", updated.Balance.String())

		fetched, err := gw.GetClient(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, "Beta SA", fetched.Name)
		assert.True(t, fetched.Balance.Equal(decimal.RequireFromString("0.3")))
	})

	t.Run("rejected update is a network error", func(t *testing.T) {
		_, err := gw.UpdateClient(ctx, id, domain.BalancePatch(decimal.NewFromInt(-5)))
		var netErr *domain.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, "failed to update client", err.Error())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, gw.DeleteClient(ctx, id))
		c, err := gw.GetClient(ctx, id)
		assert.NoError(t, err)
		assert.Nil(t, c)
	})
}

func TestGateway_Unauthorized(t *testing.T) {
	srv := newCollaborator(t, "tok")
	gw := rest.NewGateway(srv.URL, "", time.Second, nil)

	_, err := gw.ListPartners(context.Background())

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "failed to load partners", netErr.Error())
	assert.Contains(t, netErr.Unwrap().Error(), "401")
}

func TestGateway_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	gw := rest.NewGateway(url, "", time.Second, nil)

	_, err := gw.ListClients(context.Background(), "p1")
	assert.EqualError(t, err, "failed to load clients")

	_, err = gw.GetClient(context.Background(), "c1")
	assert.EqualError(t, err, "failed to load client")
}

func TestGateway_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	gw := rest.NewGateway(srv.URL, "", 20*time.Millisecond, nil)

	err := gw.DeleteClient(context.Background(), "c1")

	assert.EqualError(t, err, "failed to delete client")
}
