package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	// DefaultPageSize размер страницы списка заявок
	DefaultPageSize = 8

	// PageWindow максимум номеров страниц в пагинаторе
	PageWindow = 5

	// DefaultGeneratedBookings сколько заявок создает мок-генератор
	DefaultGeneratedBookings = 50

	// GeneratorDaysAhead горизонт генерации заявок в днях
	GeneratorDaysAhead = 90

	// DefaultSessionTTL время жизни сессии администратора
	DefaultSessionTTLHours = 24
)

const (
	// DayStart/DayEnd рабочее окно салона
	DayStart = "09:00"
	DayEnd   = "18:00"

	// SlotMinutes длительность слота календаря
	SlotMinutes = 30
)

const (
	// DefaultSearchDebounceMS пауза до применения поискового фильтра
	DefaultSearchDebounceMS = 500

	// DefaultSearchLatencyMS имитация задержки поиска
	DefaultSearchLatencyMS = 300

	// DefaultUpdateDelayMS имитация задержки обновления статуса
	DefaultUpdateDelayMS = 500

	// DefaultSaveDelayMS имитация задержки сохранения доступности
	DefaultSaveDelayMS = 1000
)

// Services is the fixed service catalog fallback when no catalog file is given.
var Services = []string{
	"Haircut",
	"Coloring",
	"Styling",
	"Treatment",
	"Manicure",
	"Pedicure",
	"Facial",
	"Massage",
}
