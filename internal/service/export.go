package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/langchou/parkpass/internal/ledger"
	"github.com/langchou/parkpass/internal/models"
)

// ExportService 预订数据导出
type ExportService struct {
	store *ledger.Store
}

// NewExportService 创建导出服务
func NewExportService(store *ledger.Store) *ExportService {
	return &ExportService{store: store}
}

// ExportOwnerBookings 导出业主名下停车场的预订为 CSV
// status 为空或 "all" 时不过滤状态；search 匹配预订 ID、停车场名、
// 客户名或邮箱（不区分大小写）
func (s *ExportService) ExportOwnerBookings(w io.Writer, ownerID, status, search string) error {
	spots := make(map[string]models.ParkingSpot)
	for _, spot := range s.store.ListSpotsByOwner(ownerID) {
		spots[spot.ID] = spot
	}

	writer := csv.NewWriter(w)
	header := []string{"Booking ID", "Customer", "Parking Spot", "Date", "Time", "Duration", "Amount", "Status"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	query := strings.ToLower(search)
	for _, booking := range s.store.ListAllBookings() {
		spot, owned := spots[booking.SpotID]
		if !owned {
			continue
		}
		if status != "" && status != "all" && booking.Status != status {
			continue
		}

		customerName, customerEmail := "Unknown", ""
		if customer := s.store.GetUserByID(booking.UserID); customer != nil {
			customerName = customer.Name
			customerEmail = customer.Email
		}

		if query != "" &&
			!strings.Contains(strings.ToLower(booking.ID), query) &&
			!strings.Contains(strings.ToLower(spot.Name), query) &&
			!strings.Contains(strings.ToLower(customerName), query) &&
			!strings.Contains(strings.ToLower(customerEmail), query) {
			continue
		}

		record := []string{
			booking.ID,
			customerName,
			spot.Name,
			booking.StartTime.Format("2006-01-02"),
			booking.StartTime.Format("15:04") + " - " + booking.EndTime.Format("15:04"),
			formatDuration(booking),
			fmt.Sprintf("$%.2f", booking.TotalCost),
			booking.Status,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// formatDuration 预订时长，如 "8h" 或 "2h 30m"
func formatDuration(b models.Booking) string {
	d := b.EndTime.Sub(b.StartTime)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
