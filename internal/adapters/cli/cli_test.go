package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"quotation-desk/internal/adapters/cli"
	"quotation-desk/internal/api"
	"quotation-desk/internal/app"
	"quotation-desk/internal/core"
	"quotation-desk/internal/settings"
)

type noStore struct{}

func (noStore) Load(context.Context) ([]byte, error) { return nil, nil }
func (noStore) Save(context.Context, []byte) error   { return nil }

func newService(t *testing.T) app.ApplicationService {
	log := zaptest.NewLogger(t)
	return app.NewAppService(nil, settings.NewService(noStore{}, log), nil, nil, log)
}

func TestPrice(t *testing.T) {
	var out bytes.Buffer
	err := cli.Run(context.Background(), newService(t), []string{"price", "incl", "1500"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "excl. 1271.19  incl. 1500.00  tax 228.81  (GST 18%)\n", out.String())

	out.Reset()
	err = cli.Run(context.Background(), newService(t), []string{"price", "excl", "1000", "5"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "incl. 1050.00")
}

// stubBackend answers the client, catalog and password calls; anything else
// hits the nil Backend.
type stubBackend struct {
	app.Backend

	parties    []core.Party
	components []api.ComponentInput
	deleted    []string
	passwords  [][2]string
}

func (b *stubBackend) ListComponents(context.Context) ([]core.Component, error) {
	return []core.Component{{ID: "cpu-1", Name: "Ryzen 5 7600", SalesPrice: decimal.NewFromInt(1500)}}, nil
}

func (b *stubBackend) GetComponent(_ context.Context, id string) (core.Component, error) {
	return core.Component{}, &api.Error{StatusCode: 404, Message: "Component not found"}
}

func (b *stubBackend) CreateComponent(_ context.Context, in api.ComponentInput) (core.Component, error) {
	b.components = append(b.components, in)
	return core.Component{ID: "gpu-1", Name: in.Name}, nil
}

func (b *stubBackend) DeleteComponent(_ context.Context, id string) error {
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *stubBackend) ListParties(context.Context, string) ([]core.Party, error) {
	return b.parties, nil
}

func (b *stubBackend) CreateParty(_ context.Context, in api.PartyInput) (core.Party, error) {
	p := core.Party{ID: "p-2", Name: in.Name, Phone: in.Phone}
	b.parties = append(b.parties, p)
	return p, nil
}

func (b *stubBackend) ListQuotations(context.Context) ([]core.Quotation, error) {
	return []core.Quotation{
		{ID: "q-1", Status: core.StatusSold, TotalAmount: decimal.NewFromInt(3000), TotalPurchase: decimal.NewFromInt(2400)},
		{ID: "q-2", Status: core.StatusSent, TotalAmount: decimal.NewFromInt(1000)},
	}, nil
}

func (b *stubBackend) ChangePassword(_ context.Context, current, next string) error {
	b.passwords = append(b.passwords, [2]string{current, next})
	return nil
}

func newBackedService(t *testing.T, b *stubBackend) app.ApplicationService {
	log := zaptest.NewLogger(t)
	return app.NewAppService(b, settings.NewService(noStore{}, log), nil, nil, log)
}

func TestPartyCommands(t *testing.T) {
	b := &stubBackend{parties: []core.Party{{ID: "p-1", Name: "Acme Traders", Phone: "98450 12345"}}}
	svc := newBackedService(t, b)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, cli.Run(ctx, svc, []string{"party-add", "Initech", "080 4000 1000"}, strings.NewReader(""), &out))
	assert.Equal(t, "Created client p-2 (Initech).\n", out.String())

	out.Reset()
	require.NoError(t, cli.Run(ctx, svc, []string{"parties"}, strings.NewReader(""), &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Initech")

	err := cli.Run(ctx, svc, []string{"party-add", "  "}, strings.NewReader(""), &out)
	assert.ErrorIs(t, err, app.ErrMissingPartyName)
}

func TestComponentCommands(t *testing.T) {
	b := &stubBackend{}
	svc := newBackedService(t, b)
	ctx := context.Background()

	var out bytes.Buffer
	err := cli.Run(ctx, svc, []string{"component-add", "RTX 4060", "Graphics Card", "MSI", "29500", "35400", "28"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, "Created component gpu-1 (RTX 4060).\n", out.String())
	require.Len(t, b.components, 1)
	assert.True(t, decimal.NewFromInt(28).Equal(b.components[0].GSTRate))

	err = cli.Run(ctx, svc, []string{"component-add", "RTX 4060", "Graphics Card", "MSI", "29500", "35400", "1e900000000"}, strings.NewReader(""), &out)
	assert.ErrorIs(t, err, core.ErrInvalidTaxRate)

	err = cli.Run(ctx, svc, []string{"component", "gpu-404"}, strings.NewReader(""), &out)
	assert.ErrorIs(t, err, app.ErrComponentNotFound)

	out.Reset()
	require.NoError(t, cli.Run(ctx, svc, []string{"component-delete", "gpu-1"}, strings.NewReader(""), &out))
	assert.Equal(t, []string{"gpu-1"}, b.deleted)
}

func TestDashboard(t *testing.T) {
	svc := newBackedService(t, &stubBackend{parties: []core.Party{{ID: "p-1", Name: "Acme"}}})
	var out bytes.Buffer
	require.NoError(t, cli.Run(context.Background(), svc, []string{"dashboard"}, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Clients:     1\n")
	assert.Contains(t, out.String(), "Quotations:  2 (1 sold, 1 sent, 0 draft, 0 lost)")
	assert.Contains(t, out.String(), "conversion 50.0%")
	assert.Contains(t, out.String(), "margin 20.0%")
}

func TestPasswd(t *testing.T) {
	b := &stubBackend{}
	svc := newBackedService(t, b)
	var out bytes.Buffer
	err := cli.Run(context.Background(), svc, []string{"passwd"}, strings.NewReader("Secret1\nNewpass2\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"Secret1", "Newpass2"}}, b.passwords)
	assert.Contains(t, out.String(), "Password changed.")

	err = cli.Run(context.Background(), svc, []string{"passwd"}, strings.NewReader("Secret1\nweak\n"), &out)
	assert.ErrorIs(t, err, app.ErrWeakPassword)
	assert.Len(t, b.passwords, 1)
}

func TestUsageErrors(t *testing.T) {
	svc := newService(t)
	for _, args := range [][]string{nil, {"frobnicate"}, {"quote"}, {"export", "q-1"}, {"price", "excl"},
		{"party"}, {"party-add"}, {"component-add", "RTX 4060"}, {"component-delete"}} {
		err := cli.Run(context.Background(), svc, args, strings.NewReader(""), &bytes.Buffer{})
		assert.ErrorIs(t, err, cli.ErrUsage, "args %v", args)
	}
}
