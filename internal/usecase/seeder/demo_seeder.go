package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/partnerdesk/internal/domain"
)

// Fixed ids of the demo records, stable across restarts so seeding is idempotent.
var (
	DemoPartnerID = uuid.MustParse("00000000-0000-0000-0000-000000000001").String()

	demoClientAna   = uuid.MustParse("00000000-0000-0000-0000-000000000101").String()
	demoClientBruno = uuid.MustParse("00000000-0000-0000-0000-000000000102").String()
	demoClientAcme  = uuid.MustParse("00000000-0000-0000-0000-000000000103").String()
)

// DemoSeeder ensures the demo partner and its sample clients exist
type DemoSeeder struct {
	partners domain.PartnerRepository
	clients  domain.ClientRepository
	logger   *slog.Logger
}

// NewDemoSeeder creates a new DemoSeeder instance
func NewDemoSeeder(partners domain.PartnerRepository, clients domain.ClientRepository, logger *slog.Logger) *DemoSeeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &DemoSeeder{
		partners: partners,
		clients:  clients,
		logger:   logger,
	}
}

// DemoPartner is the partner the demo credentials sign in as.
func DemoPartner() *domain.Partner {
	return &domain.Partner{
		ID:       DemoPartnerID,
		Name:     "João Silva",
		Email:    "joao@bank.com",
		Password: "123456",
	}
}

// DemoClients are the sample clients owned by DemoPartner.
func DemoClients() []*domain.Client {
	age30, age45 := 30, 45
	founded := "10/05/2010"
	return []*domain.Client{
		{
			ID:            demoClientAna,
			PartnerID:     DemoPartnerID,
			Name:          "Ana Souza",
			Document:      "52998224725",
			Age:           &age30,
			MonthlyIncome: decimal.NewFromInt(5000),
			Balance:       decimal.NewFromInt(3000),
		},
		{
			ID:            demoClientBruno,
			PartnerID:     DemoPartnerID,
			Name:          "Bruno Lima",
			Document:      "11144477735",
			Age:           &age45,
			MonthlyIncome: decimal.RequireFromString("8500.50"),
			Balance:       decimal.NewFromInt(1000),
		},
		{
			ID:             demoClientAcme,
			PartnerID:      DemoPartnerID,
			Name:           "Acme Comércio Ltda",
			Document:       "11222333000181",
			FoundationDate: &founded,
			MonthlyIncome:  decimal.NewFromInt(120000),
			Balance:        decimal.NewFromInt(25000),
		},
	}
}

// Seed creates whichever demo records are missing; existing ones are left untouched.
func (s *DemoSeeder) Seed(ctx context.Context) error {
	partner := DemoPartner()
	_, err := s.partners.GetByID(ctx, partner.ID)
	switch {
	case errors.Is(err, domain.ErrPartnerNotFound):
		if err := s.partners.Create(ctx, partner); err != nil {
			return fmt.Errorf("failed to seed partner: %w", err)
		}
		s.logger.Info("Seeded demo partner", "partner_id", partner.ID, "email", partner.Email)
	case err != nil:
		return fmt.Errorf("failed to look up demo partner: %w", err)
	}

	for _, client := range DemoClients() {
		_, err := s.clients.GetByID(ctx, client.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to look up demo client: %w", err)
		}

		// Validate before creating
		if err := client.Validate(); err != nil {
			return err
		}
		if err := s.clients.Create(ctx, client); err != nil {
			return fmt.Errorf("failed to seed client: %w", err)
		}
		s.logger.Info("Seeded demo client", "client_id", client.ID, "name", client.Name)
	}

	return nil
}
