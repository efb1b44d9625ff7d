package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	db := openTestDB(t)

	id, err := db.AddStore(&Store{Name: "Costco", Location: "Route 9"})
	require.NoError(t, err)
	_, err = db.AddStore(&Store{Name: "Costco"})
	require.Error(t, err)
	_, err = db.AddStore(&Store{Name: "  "})
	require.Error(t, err)

	s, err := db.StoreByName("costco")
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, "Route 9", s.Location)

	_, err = db.StoreByName("Aldi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteStore_ClearsReferences(t *testing.T) {
	db := openTestDB(t)

	id, err := db.AddStore(&Store{Name: "Costco"})
	require.NoError(t, err)
	_, err = db.AddPantryItem(&PantryItem{Name: "rice", StoreName: "Costco"})
	require.NoError(t, err)
	_, err = db.AddStaple(&Staple{Name: "salt", StoreName: "Costco"})
	require.NoError(t, err)
	require.NoError(t, db.UpsertPrice(&KnownPrice{ItemName: "rice", UnitPrice: 2, StoreName: "Costco"}))

	require.NoError(t, db.DeleteStore(id))

	pantry, err := db.ListPantry()
	require.NoError(t, err)
	require.Len(t, pantry, 1)
	assert.Empty(t, pantry[0].StoreName)

	staples, err := db.ListStaples()
	require.NoError(t, err)
	require.Len(t, staples, 1)
	assert.Empty(t, staples[0].StoreName)

	prices, err := db.ListPrices()
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Empty(t, prices[0].StoreName)

	assert.ErrorIs(t, db.DeleteStore(id), ErrNotFound)
}

func TestPantry(t *testing.T) {
	db := openTestDB(t)
	_, err := db.AddStore(&Store{Name: "Trader Joe's"})
	require.NoError(t, err)

	_, err = db.AddPantryItem(&PantryItem{Name: "Eggs", Quantity: ptr(6.0), Unit: "each", BestBy: "2026-02-25", StoreName: "Trader Joe's"})
	require.NoError(t, err)
	_, err = db.AddPantryItem(&PantryItem{Name: "Flour", EstimatedPrice: ptr(3.5)})
	require.NoError(t, err)
	_, err = db.AddPantryItem(&PantryItem{Name: "Milk", Quantity: ptr(1.0), BestBy: "2026-03-30"})
	require.NoError(t, err)

	_, err = db.AddPantryItem(&PantryItem{Name: "Oats", StoreName: "Nowhere"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.AddPantryItem(&PantryItem{Name: "Oats", BestBy: "soon"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	items, err := db.ListPantry()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Eggs", items[0].Name)
	assert.Equal(t, "Trader Joe's", items[0].StoreName)
	assert.Equal(t, 6.0, *items[0].Quantity)
	assert.Nil(t, items[1].Quantity)
	assert.Equal(t, 3.5, *items[1].EstimatedPrice)

	now := time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC)
	soon, err := db.ExpiringSoon(now, 7)
	require.NoError(t, err)
	require.Len(t, soon, 1)
	assert.Equal(t, "Eggs", soon[0].Name)

	require.NoError(t, db.DeletePantryItem(soon[0].ID))
	assert.ErrorIs(t, db.DeletePantryItem(soon[0].ID), ErrNotFound)
}

func TestStaples(t *testing.T) {
	db := openTestDB(t)

	_, err := db.AddStaple(&Staple{Name: "Salt", Category: "Spices"})
	require.NoError(t, err)
	_, err = db.AddStaple(&Staple{Name: "Paper Towels", NeedToBuy: true})
	require.NoError(t, err)

	require.NoError(t, db.SetNeedToBuy("salt", true))
	require.NoError(t, db.SetNeedToBuy("PAPER TOWELS", false))
	assert.ErrorIs(t, db.SetNeedToBuy("pepper", true), ErrNotFound)

	staples, err := db.ListStaples()
	require.NoError(t, err)
	require.Len(t, staples, 2)
	assert.Equal(t, "Paper Towels", staples[0].Name)
	assert.False(t, staples[0].NeedToBuy)
	assert.Equal(t, "Salt", staples[1].Name)
	assert.True(t, staples[1].NeedToBuy)
	assert.Equal(t, "Spices", staples[1].Category)

	require.NoError(t, db.DeleteStaple("salt"))
	assert.ErrorIs(t, db.DeleteStaple("salt"), ErrNotFound)
}

func TestPrices(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.UpsertPrice(&KnownPrice{ItemName: "Chicken Breast", UnitPrice: 4.5, Unit: "lb"}))
	require.NoError(t, db.UpsertPrice(&KnownPrice{ItemName: "chicken breast", UnitPrice: 4.99, Unit: "lb"}))
	assert.Error(t, db.UpsertPrice(&KnownPrice{ItemName: "eggs", UnitPrice: 0}))

	prices, err := db.ListPrices()
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Chicken Breast", prices[0].ItemName)
	assert.Equal(t, 4.99, prices[0].UnitPrice)

	p, err := db.PriceByName("CHICKEN BREAST")
	require.NoError(t, err)
	assert.Equal(t, "lb", p.Unit)

	require.NoError(t, db.DeletePrice("chicken breast"))
	_, err = db.PriceByName("chicken breast")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseKnownPricesCSV(t *testing.T) {
	in := strings.Join([]string{
		"item_name,unit_price,unit,store",
		"Milk,3.49,gallon,Costco",
		"Eggs,abc",
		"Bread,-1",
		"Butter, 4.25",
		",1.00",
		"lonely",
	}, "\n")

	prices, err := ParseKnownPricesCSV(strings.NewReader(in), nil)
	require.NoError(t, err)
	assert.Equal(t, []KnownPrice{
		{ItemName: "Milk", UnitPrice: 3.49, Unit: "gallon", StoreName: "Costco"},
		{ItemName: "Butter", UnitPrice: 4.25},
	}, prices)
}

func TestBulkUpsertPrices(t *testing.T) {
	db := openTestDB(t)
	_, err := db.AddStore(&Store{Name: "Costco"})
	require.NoError(t, err)
	require.NoError(t, db.UpsertPrice(&KnownPrice{ItemName: "milk", UnitPrice: 3}))

	require.NoError(t, db.BulkUpsertPrices([]KnownPrice{
		{ItemName: "Milk", UnitPrice: 3.49, StoreName: "Costco"},
		{ItemName: "Butter", UnitPrice: 4.25},
	}))

	prices, err := db.ListPrices()
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "Butter", prices[0].ItemName)
	assert.Equal(t, 3.49, prices[1].UnitPrice)
	assert.Equal(t, "Costco", prices[1].StoreName)

	err = db.BulkUpsertPrices([]KnownPrice{{ItemName: "Tea", UnitPrice: 2, StoreName: "Aldi"}})
	assert.ErrorIs(t, err, ErrNotFound)
}
