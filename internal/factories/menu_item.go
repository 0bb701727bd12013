package factories

import (
	"github.com/jaswdr/faker"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/shopspring/decimal"
)

// menuCatalog lists dishes per category with a price range in grosze.
var menuCatalog = []struct {
	category string
	minPrice int
	maxPrice int
	dishes   []string
}{
	{"Zupy", 1400, 2600, []string{"Żurek", "Barszcz czerwony", "Rosół z makaronem", "Pomidorowa", "Kapuśniak", "Flaki"}},
	{"Dania główne", 2900, 6400, []string{"Pierogi ruskie", "Kotlet schabowy", "Gołąbki", "Bigos", "Placki ziemniaczane", "Zrazy wołowe", "Kaczka z jabłkami", "Pstrąg pieczony"}},
	{"Przystawki", 1600, 3200, []string{"Śledź w oleju", "Tatar wołowy", "Smalec ze skwarkami", "Oscypek z żurawiną"}},
	{"Desery", 1200, 2400, []string{"Sernik", "Szarlotka", "Pączek", "Makowiec"}},
	{"Napoje", 600, 1500, []string{"Kompot", "Lemoniada", "Herbata", "Kawa", "Woda mineralna"}},
}

type MenuItemFactory struct {
	fake faker.Faker
}

func NewMenuItemFactory(fake faker.Faker) *MenuItemFactory {
	return &MenuItemFactory{fake: fake}
}

// CreateMenu returns every catalog dish once, priced at random within its
// category's range.
func (mf *MenuItemFactory) CreateMenu() []*models.MenuItem {
	var items []*models.MenuItem
	for _, c := range menuCatalog {
		for _, name := range c.dishes {
			items = append(items, &models.MenuItem{
				Name:        name,
				Description: mf.fake.Lorem().Sentence(8),
				Price:       decimal.New(int64(mf.fake.IntBetween(c.minPrice, c.maxPrice)), -2),
				Category:    c.category,
				IsAvailable: true,
				IsVisible:   true,
			})
		}
	}
	return items
}
