package inventory

import (
	"fmt"
	"time"

	"bakehouse-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/inventory/export — current inventory as an XLSX workbook.
func ExportItemsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		items, err := svc.List(c.Context(), userID)
		if err != nil {
			return mapServiceError(err)
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Inventory"
		f.SetSheetName("Sheet1", sheet)

		headers := []interface{}{"Name", "Category", "Supplier", "Unit", "Purchase Cost", "Purchase Quantity", "Stock", "Created At"}
		if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export file")
		}

		for i, item := range items {
			row := []interface{}{
				item.Name,
				item.Category,
				item.Supplier,
				item.Unit,
				item.PurchaseCost.String(),
				item.PurchaseQuantity.String(),
				item.Stock.String(),
				item.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build export file")
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write export file")
		}

		filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.Send(buf.Bytes())
	}
}
