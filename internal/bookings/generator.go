package bookings

import (
	"fmt"
	"math/rand"

	"time"

	"braidzworld/internal/models"
)

// Catalog is the service list and client roster the generator draws from.
type Catalog struct {
	Services []string        `yaml:"services"`
	Clients  []models.Client `yaml:"clients"`
}

// DefaultCatalog returns the built-in salon catalog used when no catalog file
// is configured.
func DefaultCatalog() Catalog {
	return Catalog{Services: models.Services, Clients: defaultClients}
}

// Generate produces n synthetic bookings: a random date within daysAhead days
// forward, a random half-hour slot between 09:00 and 18:00, service and status
// drawn uniformly, client identity cycled from the roster. Pass a seeded rng
// for deterministic output.
func Generate(n, daysAhead int, now time.Time, catalog Catalog, rng *rand.Rand) []models.Booking {
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}
	if len(catalog.Services) == 0 {
		catalog.Services = models.Services
	}
	if len(catalog.Clients) == 0 {
		catalog.Clients = defaultClients
	}
	if daysAhead <= 0 {
		daysAhead = models.GeneratorDaysAhead
	}

	statuses := []string{models.StatusPending, models.StatusConfirmed, models.StatusCancelled}

	out := make([]models.Booking, 0, n)
	for i := 0; i < n; i++ {
		date := now.AddDate(0, 0, rng.Intn(daysAhead))

		hour := rng.Intn(9) + 9
		minute := "00"
		if rng.Intn(2) == 1 {
			minute = "30"
		}

		client := catalog.Clients[i%len(catalog.Clients)]

		out = append(out, models.Booking{
			ID:        fmt.Sprintf("booking-%d", i+1),
			Date:      date.Format(dateLayout),
			Time:      fmt.Sprintf("%02d:%s", hour, minute),
			Service:   catalog.Services[rng.Intn(len(catalog.Services))],
			Status:    statuses[rng.Intn(len(statuses))],
			Duration:  rng.Intn(3) + 1,
			UserID:    fmt.Sprintf("user-%d", i+1),
			UserName:  client.Name,
			UserEmail: client.Email,
		})
	}
	return out
}

var defaultClients = []models.Client{
	{Name: "John Smith", Email: "john.smith@example.com"},
	{Name: "Emma Johnson", Email: "emma.j@example.com"},
	{Name: "Michael Brown", Email: "michael.b@example.com"},
	{Name: "Sarah Davis", Email: "sarah.d@example.com"},
	{Name: "David Wilson", Email: "david.w@example.com"},
	{Name: "Lisa Anderson", Email: "lisa.a@example.com"},
	{Name: "Robert Taylor", Email: "robert.t@example.com"},
	{Name: "Jennifer Martinez", Email: "jennifer.m@example.com"},
	{Name: "William Thomas", Email: "william.t@example.com"},
	{Name: "Patricia Garcia", Email: "patricia.g@example.com"},
	{Name: "James Wilson", Email: "james.w@example.com"},
	{Name: "Elizabeth Moore", Email: "elizabeth.m@example.com"},
	{Name: "Joseph Lee", Email: "joseph.l@example.com"},
	{Name: "Margaret White", Email: "margaret.w@example.com"},
	{Name: "Thomas Harris", Email: "thomas.h@example.com"},
	{Name: "Susan Clark", Email: "susan.c@example.com"},
	{Name: "Charles Lewis", Email: "charles.l@example.com"},
	{Name: "Jessica Hall", Email: "jessica.h@example.com"},
	{Name: "Daniel Young", Email: "daniel.y@example.com"},
	{Name: "Sarah King", Email: "sarah.k@example.com"},
	{Name: "Matthew Wright", Email: "matthew.w@example.com"},
	{Name: "Nancy Scott", Email: "nancy.s@example.com"},
	{Name: "Anthony Green", Email: "anthony.g@example.com"},
	{Name: "Betty Adams", Email: "betty.a@example.com"},
	{Name: "Donald Baker", Email: "donald.b@example.com"},
	{Name: "Dorothy Nelson", Email: "dorothy.n@example.com"},
	{Name: "Paul Carter", Email: "paul.c@example.com"},
	{Name: "Karen Mitchell", Email: "karen.m@example.com"},
	{Name: "Mark Perez", Email: "mark.p@example.com"},
	{Name: "Helen Roberts", Email: "helen.r@example.com"},
	{Name: "Steven Turner", Email: "steven.t@example.com"},
	{Name: "Deborah Phillips", Email: "deborah.p@example.com"},
	{Name: "Andrew Campbell", Email: "andrew.c@example.com"},
	{Name: "Sharon Parker", Email: "sharon.p@example.com"},
	{Name: "Kenneth Evans", Email: "kenneth.e@example.com"},
	{Name: "Michelle Edwards", Email: "michelle.e@example.com"},
	{Name: "Joshua Collins", Email: "joshua.c@example.com"},
	{Name: "Laura Stewart", Email: "laura.s@example.com"},
	{Name: "Kevin Morris", Email: "kevin.m@example.com"},
	{Name: "Sandra Rogers", Email: "sandra.r@example.com"},
}
