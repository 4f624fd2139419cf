package production

import (
	"fmt"
	"time"

	"bakehouse-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/production/logs/export — production history as an XLSX workbook,
// one row per deduction line.
func ExportLogsHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		logs, err := engine.History(c.Context(), userID)
		if err != nil {
			return mapEngineError(err)
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Production"
		f.SetSheetName("Sheet1", sheet)

		headers := []interface{}{"Date", "Recipe", "Batches", "Ingredient", "Deducted", "Unit"}
		if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export file")
		}

		rowNum := 2
		for _, log := range logs {
			for _, item := range log.Items {
				row := []interface{}{
					log.CreatedAt.Format("2006-01-02 15:04:05"),
					log.RecipeName,
					log.Quantity.String(),
					item.InventoryName,
					item.QuantityDeducted.String(),
					item.Unit,
				}
				cell := fmt.Sprintf("A%d", rowNum)
				if err := f.SetSheetRow(sheet, cell, &row); err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "Could not build export file")
				}
				rowNum++
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not write export file")
		}

		filename := fmt.Sprintf("production-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.Send(buf.Bytes())
	}
}
