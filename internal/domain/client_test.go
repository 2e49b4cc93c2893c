package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestClient_Validate(t *testing.T) {
	tests := []struct {
		name    string
		client  Client
		wantErr bool
		errMsg  string
	}{
		{
			name: "Personal client with age should pass",
			client: Client{
				Name:     "Ana Souza",
				Document: "52998224725",
				Age:      intPtr(30),
				Balance:  decimal.Zero,
			},
			wantErr: false,
		},
		{
			name: "Organizational client with foundation date should pass",
			client: Client{
				Name:           "Souza Ltda",
				Document:       "11222333000181",
				FoundationDate: strPtr("01/02/2010"),
				Balance:        decimal.NewFromInt(100),
			},
			wantErr: false,
		},
		{
			name: "Empty name should fail",
			client: Client{
				Document: "52998224725",
				Age:      intPtr(30),
			},
			wantErr: true,
			errMsg:  "client name cannot be empty",
		},
		{
			name: "Personal client without age should fail",
			client: Client{
				Name:     "Ana Souza",
				Document: "52998224725",
			},
			wantErr: true,
			errMsg:  "personal client must have an age and no foundation date",
		},
		{
			name: "Personal client with both age and foundation date should fail",
			client: Client{
				Name:           "Ana Souza",
				Document:       "52998224725",
				Age:            intPtr(30),
				FoundationDate: strPtr("01/02/2010"),
			},
			wantErr: true,
			errMsg:  "personal client must have an age and no foundation date",
		},
		{
			name: "Organizational client with age should fail",
			client: Client{
				Name:     "Souza Ltda",
				Document: "11222333000181",
				Age:      intPtr(30),
			},
			wantErr: true,
			errMsg:  "organizational client must have a foundation date and no age",
		},
		{
			name: "Unknown document length should fail",
			client: Client{
				Name:     "Ana Souza",
				Document: "123",
				Age:      intPtr(30),
			},
			wantErr: true,
			errMsg:  "invalid document length 3",
		},
		{
			name: "Negative balance should fail",
			client: Client{
				Name:     "Ana Souza",
				Document: "52998224725",
				Age:      intPtr(30),
				Balance:  decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "client balance cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.client.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClientPatch_Apply(t *testing.T) {
	client := Client{
		ID:            "c1",
		Name:          "Ana",
		Document:      "52998224725",
		Age:           intPtr(30),
		MonthlyIncome: decimal.NewFromInt(5000),
		Balance:       decimal.NewFromInt(3000),
	}

	patch := ClientPatch{Name: strPtr("Ana Souza"), Age: intPtr(31)}
	assert.False(t, patch.IsEmpty())
	patch.Apply(&client)

	assert.Equal(t, "Ana Souza", client.Name)
	assert.Equal(t, 31, *client.Age)
	assert.True(t, decimal.NewFromInt(3000).Equal(client.Balance), "untouched balance")

	BalancePatch(decimal.NewFromInt(2500)).Apply(&client)
	assert.True(t, decimal.NewFromInt(2500).Equal(client.Balance))
	assert.True(t, ClientPatch{}.IsEmpty())
}

func TestPartner_Matches(t *testing.T) {
	p := Partner{ID: "p1", Email: "joao@bank.com", Password: "123456"}

	assert.True(t, p.Matches("joao@bank.com", "123456"))
	assert.False(t, p.Matches("joao@bank.com", "1234567"))
	assert.False(t, p.Matches("JOAO@bank.com", "123456"))
}
