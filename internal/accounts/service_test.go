package accounts

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/buku/internal/model"
)

type fakeUsage struct {
	used map[string]bool
	err  error
}

func (f fakeUsage) InUse(id string) (bool, error) {
	return f.used[id], f.err
}

func TestNewService_SortsByID(t *testing.T) {
	svc := NewService([]model.Account{
		{ID: "6101", Name: "Gaji", Category: model.CategoryExpense, SubCategory: model.SubExpense},
		{ID: "1101", Name: "Kas", Category: model.CategoryAsset, SubCategory: model.SubBank},
	})
	all := svc.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1101", all[0].ID)
	assert.Equal(t, "6101", all[1].ID)
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultChart())

	acct, ok := svc.Get(IDCash)
	assert.True(t, ok)
	assert.Equal(t, "Kas", acct.Name)

	_, ok = svc.Get("9999")
	assert.False(t, ok)

	assert.True(t, svc.Exists(IDOutputTax))
	assert.False(t, svc.Exists("9999"))
}

func TestByCategoryAndSubCategory(t *testing.T) {
	svc := NewService(DefaultChart())

	for _, a := range svc.ByCategory(model.CategoryRevenue) {
		assert.Equal(t, model.CategoryRevenue, a.Category)
	}
	assert.Len(t, svc.ByCategory(model.CategoryRevenue), 2)

	banks := svc.BySubCategory(model.SubBank)
	require.Len(t, banks, 2, "expected Kas + Bank")
	assert.Equal(t, IDCash, banks[0].ID)
}

func TestAdd(t *testing.T) {
	svc := NewService(DefaultChart())

	err := svc.Add(model.Account{ID: "6104", Name: "Beban Iklan", Category: model.CategoryExpense, SubCategory: model.SubExpense, Deletable: true})
	require.NoError(t, err)
	assert.True(t, svc.Exists("6104"))

	err = svc.Add(model.Account{ID: "6104", Name: "Dup", Category: model.CategoryExpense, SubCategory: model.SubExpense})
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	err = svc.Add(model.Account{ID: "6105", Name: "Wrong", Category: model.CategoryExpense, SubCategory: model.SubBank})
	assert.Error(t, err, "sub-category outside classification")

	err = svc.Add(model.Account{ID: "", Name: "No ID", Category: model.CategoryAsset, SubCategory: model.SubBank})
	assert.Error(t, err)

	err = svc.Add(model.Account{ID: "7000", Name: "Odd", Category: "other", SubCategory: model.SubBank})
	assert.Error(t, err)
}

func TestUpdateKeepsDeletable(t *testing.T) {
	svc := NewService(DefaultChart())

	err := svc.Update(model.Account{ID: IDCash, Name: "Kas Kecil", Category: model.CategoryAsset, SubCategory: model.SubBank, Deletable: true, OpeningBalance: dec("100")})
	require.NoError(t, err)

	acct, _ := svc.Get(IDCash)
	assert.Equal(t, "Kas Kecil", acct.Name)
	assert.False(t, acct.Deletable)
	assert.True(t, acct.OpeningBalance.Equal(dec("100")))

	err = svc.Update(model.Account{ID: "9999", Name: "x", Category: model.CategoryAsset, SubCategory: model.SubBank})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSetOpening(t *testing.T) {
	svc := NewService(DefaultChart())
	require.NoError(t, svc.SetOpening(IDCapital, dec("10000000")))
	acct, _ := svc.Get(IDCapital)
	assert.True(t, acct.OpeningBalance.Equal(dec("10000000")))

	assert.ErrorIs(t, svc.SetOpening("9999", dec("1")), ErrAccountNotFound)
}

func TestDelete(t *testing.T) {
	svc := NewService(DefaultChart())

	assert.ErrorIs(t, svc.Delete(IDCash, nil), ErrNotDeletable)
	assert.ErrorIs(t, svc.Delete("9999", nil), ErrAccountNotFound)
	assert.ErrorIs(t, svc.Delete("6101", fakeUsage{used: map[string]bool{"6101": true}}), ErrAccountInUse)

	boom := errors.New("boom")
	assert.ErrorIs(t, svc.Delete("6101", fakeUsage{err: boom}), boom)

	require.NoError(t, svc.Delete("6101", fakeUsage{}))
	assert.False(t, svc.Exists("6101"))
	assert.True(t, svc.Exists("6102"), "neighbouring accounts survive reindex")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chart := DefaultChart()
	svc := NewService(chart)

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	_, err := os.Stat(Path(dir))
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc2.All(), len(chart))

	for _, orig := range chart {
		got, ok := svc2.Get(orig.ID)
		require.True(t, ok, "account %s should exist", orig.ID)
		assert.Equal(t, orig.Name, got.Name)
		assert.Equal(t, orig.SubCategory, got.SubCategory)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
