package intake_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csg33k/era-intake/internal/domain"
	"github.com/csg33k/era-intake/internal/intake"
)

func TestResolve_CategoryRelabels(t *testing.T) {
	v := variant(t, "verified")

	res := intake.Resolve(v, domain.Draft{})
	require.Equal(t, "How much do you spend on your chosen category monthly?", res.Labels["monthly_expense"])

	for value, word := range map[string]string{"rent": "rent", "utilities": "utilities", "electricity": "electricity"} {
		res = intake.Resolve(v, domain.Draft{"category": value})
		require.Equal(t, "How much do you spend on "+word+" monthly?", res.Labels["monthly_expense"])
	}
}

func TestResolve_OutstandingBalance(t *testing.T) {
	v := variant(t, "verified")

	tests := []struct {
		answer   string
		visible  bool
		required bool
	}{
		{"", false, false},
		{"no", false, false},
		{"yes", true, true},
	}
	for _, tt := range tests {
		t.Run("answer="+tt.answer, func(t *testing.T) {
			d := domain.Draft{"outstanding_balance": tt.answer, "balance_amount": "300"}
			res := intake.Resolve(v, d)
			require.Equal(t, tt.visible, res.IsVisible("balance_amount"))
			require.Equal(t, tt.required, res.IsRequired("balance_amount"))
			// Resolution never clears a value.
			require.Equal(t, "300", d["balance_amount"])
		})
	}
}

func TestResolve_RequiredNames(t *testing.T) {
	v := variant(t, "standard")
	res := intake.Resolve(v, domain.Draft{})
	require.Equal(t, []string{"full_name", "address", "dob", "category"}, res.RequiredNames(v))
}

func TestResolve_VisibilityChains(t *testing.T) {
	v := &domain.Variant{Fields: []domain.FieldSpec{
		{Name: "a", Kind: domain.KindYesNo},
		{Name: "b", Kind: domain.KindYesNo, VisibleWhen: &domain.Condition{Field: "a", Equals: "yes"}},
		{Name: "c", Kind: domain.KindText, VisibleWhen: &domain.Condition{Field: "b", Equals: "yes"}, Required: true},
	}}
	res := intake.Resolve(v, domain.Draft{"a": "no", "b": "yes"})
	require.False(t, res.IsVisible("b"))
	require.False(t, res.IsVisible("c"))
	require.False(t, res.IsRequired("c"))

	res = intake.Resolve(v, domain.Draft{"a": "yes", "b": "yes"})
	require.True(t, res.IsRequired("c"))
}

func TestController_BalanceValueKeptWhenHidden(t *testing.T) {
	c := newVerified(t, &fakeSubmitter{})
	require.NoError(t, c.Set("outstanding_balance", "yes"))
	require.NoError(t, c.Set("balance_amount", "125.00"))
	require.True(t, c.Resolution().IsRequired("balance_amount"))

	require.NoError(t, c.Set("outstanding_balance", "no"))
	require.False(t, c.Resolution().IsRequired("balance_amount"))
	require.Equal(t, "125.00", c.Value("balance_amount"))
}
