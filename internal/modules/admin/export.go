package admin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"dentalclinic/internal/domain"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var ErrExportGenerateFail = errors.New("failed to generate export file")

const exportTimeLayout = "2006-01-02 15:04"

type ExportService struct {
	bookings BookingReader
	orders   OrderReader
	products ProductReader
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewExportService(bookings BookingReader, orders OrderReader, products ProductReader, loc *time.Location, logger *zap.Logger) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		bookings: bookings,
		orders:   orders,
		products: products,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ExportService) BookingsXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	list, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]any, 0, len(list))
	for _, b := range list {
		rows = append(rows, []any{
			b.ID, b.PatientName, b.Phone, b.Email, b.Service,
			b.ScheduledAt.In(s.loc).Format(exportTimeLayout), b.DurationMinutes,
			string(b.Status), b.Message, b.CreatedAt.In(s.loc).Format(exportTimeLayout),
		})
	}

	header := []string{"ID", "Patient", "Phone", "Email", "Service", "Scheduled", "Minutes", "Status", "Message", "Created"}
	return s.writeSheet("Bookings", header, rows, "bookings")
}

func (s *ExportService) OrdersXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	list, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]any, 0, len(list))
	for _, o := range list {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		rows = append(rows, []any{
			o.Number, o.CustomerName, o.Email, o.Phone, o.Address, o.PaymentMethod,
			string(o.Status), items, float64(o.TotalCents) / 100, o.CreatedAt.In(s.loc).Format(exportTimeLayout),
		})
	}

	header := []string{"Number", "Customer", "Email", "Phone", "Address", "Payment", "Status", "Items", "Total", "Created"}
	return s.writeSheet("Orders", header, rows, "orders")
}

func (s *ExportService) ProductsXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	list, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]any, 0, len(list))
	for _, p := range list {
		rows = append(rows, []any{
			p.SKU, p.Name, p.Category, float64(p.PriceCents) / 100, p.Stock, p.Active,
		})
	}

	header := []string{"SKU", "Name", "Category", "Price", "Stock", "Active"}
	return s.writeSheet("Products", header, rows, "products")
}

func (s *ExportService) writeSheet(sheet string, header []string, rows [][]any, prefix string) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})

	for i, h := range header {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cellName, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	_ = f.SetColWidth(sheet, "A", lastCol, 18)

	for r, row := range rows {
		start, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, start, &row); err != nil {
			s.logger.Error("write xlsx row", zap.String("sheet", sheet), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx", zap.String("sheet", sheet), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_%s.xlsx", prefix, s.now().In(s.loc).Format("20060102"))
	return buf, filename, nil
}

// BookingsICS renders non-cancelled bookings as a calendar feed. With
// upcomingOnly set, past appointments are left out.
func (s *ExportService) BookingsICS(ctx context.Context, upcomingOnly bool) (string, error) {
	var (
		list []domain.Booking
		err  error
	)
	if upcomingOnly {
		list, err = s.bookings.ListUpcoming(ctx, s.now())
	} else {
		list, err = s.bookings.ListAll(ctx)
	}
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//dentalclinic//bookings//EN")
	cal.SetXWRCalName("Clinic bookings")

	stamp := s.now().UTC()
	for _, b := range list {
		if b.Status == domain.BookingCancelled {
			continue
		}

		ev := cal.AddEvent(fmt.Sprintf("booking-%d@dentalclinic", b.ID))
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(b.CreatedAt)
		ev.SetModifiedAt(b.UpdatedAt)
		ev.SetStartAt(b.ScheduledAt)
		ev.SetEndAt(b.EndsAt())
		ev.SetSummary(fmt.Sprintf("%s: %s", b.Service, b.PatientName))
		ev.SetDescription(fmt.Sprintf("Phone: %s\nStatus: %s\n%s", b.Phone, b.Status, b.Message))
		if b.Status == domain.BookingConfirmed || b.Status == domain.BookingCompleted {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		} else {
			ev.SetStatus(ics.ObjectStatusTentative)
		}
	}
	return cal.Serialize(), nil
}
