package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/sokoni-online/cart-api/logger"
	"github.com/sokoni-online/cart-api/models"
	"github.com/sokoni-online/cart-api/store"
)

// loadAllCarts reads every stored snapshot, keyed by storage key.
func loadAllCarts(c *gin.Context, st store.SnapshotStore) (map[string]models.CartState, error) {
	keys, err := st.Keys(c.Request.Context())
	if err != nil {
		return nil, err
	}
	carts := make(map[string]models.CartState, len(keys))
	for _, key := range keys {
		snap, err := st.Load(c.Request.Context(), key)
		if err != nil {
			return nil, err
		}
		state, err := models.CartStateFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		carts[key] = state
	}
	return carts, nil
}

// GET /admin/carts
func ListCarts(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		carts, err := loadAllCarts(c, st)
		if err != nil {
			log.Error("cart listing failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list carts"})
			return
		}
		c.JSON(http.StatusOK, carts)
	}
}

// DELETE /admin/carts/:key
func DeleteCart(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
			return
		}
		if err := st.Delete(c.Request.Context(), key); err != nil {
			log.Error("cart delete failed", "cart", key, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart deleted"})
	}
}

// GET /admin/carts/export-excel
func ExportCartsToExcel(st store.SnapshotStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		carts, err := loadAllCarts(c, st)
		if err != nil {
			log.Error("cart export failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch carts"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Carts")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		headers := []string{
			"CartKey", "CartID", "SKU", "Quantity", "DiscountPrice",
			"ItemTotal", "TotalUniqueItems", "TotalItems", "CartTotal",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// One row per line item; empty carts still get a row
		for key, state := range carts {
			if len(state.Items) == 0 {
				row := sheet.AddRow()
				row.AddCell().SetValue(key)
				row.AddCell().SetValue(state.ID)
				continue
			}
			for _, it := range state.Items {
				row := sheet.AddRow()
				row.AddCell().SetValue(key)
				row.AddCell().SetValue(state.ID)
				row.AddCell().SetValue(it.SKU)
				row.AddCell().SetValue(it.Quantity)
				row.AddCell().SetValue(it.DiscountPrice)
				row.AddCell().SetValue(it.ItemTotal)
				row.AddCell().SetValue(state.TotalUniqueItems)
				row.AddCell().SetValue(state.TotalItems)
				row.AddCell().SetValue(state.CartTotal)
			}
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=carts.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
