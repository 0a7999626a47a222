package controllers

import (
	"errors"
	"net/http"

	"venueops-backend/config"
	"venueops-backend/models"
	"venueops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateProductoInput struct {
	Nombre         string  `json:"nombre" binding:"required"`
	Descripcion    string  `json:"descripcion"`
	PrecioRegular  float64 `json:"precioRegular" binding:"required,min=0"`
	PrecioServicio float64 `json:"precioServicio" binding:"required,min=0"`
	Stock          int     `json:"stock" binding:"min=0"`
	StockMinimo    int     `json:"stockMinimo" binding:"min=0"`
	Categoria      string  `json:"categoria"`
	Imagen         string  `json:"imagen"`
}

type UpdateProductoInput struct {
	Nombre         *string  `json:"nombre"`
	Descripcion    *string  `json:"descripcion"`
	PrecioRegular  *float64 `json:"precioRegular"`
	PrecioServicio *float64 `json:"precioServicio"`
	StockMinimo    *int     `json:"stockMinimo"`
	Categoria      *string  `json:"categoria"`
	Imagen         *string  `json:"imagen"`
	Activo         *bool    `json:"activo"`
}

// CreateProducto adds a boutique item.
func CreateProducto(c *gin.Context) {
	var input CreateProductoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	producto := models.Producto{
		Nombre:         input.Nombre,
		Descripcion:    input.Descripcion,
		PrecioRegular:  input.PrecioRegular,
		PrecioServicio: input.PrecioServicio,
		Stock:          input.Stock,
		StockMinimo:    input.StockMinimo,
		Categoria:      input.Categoria,
		Imagen:         input.Imagen,
		Activo:         true,
	}
	if producto.Categoria == "" {
		producto.Categoria = "General"
	}
	if producto.StockMinimo == 0 {
		producto.StockMinimo = 5
	}

	if err := config.DB.Create(&producto).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, producto)
}

// GetProductos lists boutique items.
func GetProductos(c *gin.Context) {
	var productos []models.Producto
	q := config.DB.Order("nombre")
	if c.Query("categoria") != "" {
		q = q.Where("categoria = ?", c.Query("categoria"))
	}
	if err := q.Find(&productos).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, productos)
}

// GetProducto retrieves one boutique item.
func GetProducto(c *gin.Context) {
	productoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var producto models.Producto
	if err := config.DB.First(&producto, "id = ?", productoUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, producto)
}

// UpdateProducto updates price/metadata fields. Stock changes go through
// AjustarStock so every movement is audited.
func UpdateProducto(c *gin.Context) {
	productoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input UpdateProductoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var producto models.Producto
	if err := config.DB.First(&producto, "id = ?", productoUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Nombre != nil {
		producto.Nombre = *input.Nombre
	}
	if input.Descripcion != nil {
		producto.Descripcion = *input.Descripcion
	}
	if input.PrecioRegular != nil {
		producto.PrecioRegular = *input.PrecioRegular
	}
	if input.PrecioServicio != nil {
		producto.PrecioServicio = *input.PrecioServicio
	}
	if input.StockMinimo != nil {
		producto.StockMinimo = *input.StockMinimo
	}
	if input.Categoria != nil {
		producto.Categoria = *input.Categoria
	}
	if input.Imagen != nil {
		producto.Imagen = *input.Imagen
	}
	if input.Activo != nil {
		producto.Activo = *input.Activo
	}

	if err := config.DB.Save(&producto).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, producto)
}

type AjusteStockInput struct {
	Cantidad int    `json:"cantidad" binding:"required"` // positive = in, negative = out
	Motivo   string `json:"motivo" binding:"required"`
}

// AjustarStock applies a manual stock correction and records the movement.
func AjustarStock(c *gin.Context) {
	productoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input AjusteStockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var producto models.Producto
	if err := config.DB.First(&producto, "id = ?", productoUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if producto.Stock+input.Cantidad < 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Stock insuficiente para el ajuste")
		return
	}

	movimiento := models.MovimientoStock{
		ProductoID:    producto.ID,
		Tipo:          models.MovimientoAjuste,
		Cantidad:      input.Cantidad,
		StockAnterior: producto.Stock,
		StockNuevo:    producto.Stock + input.Cantidad,
		Motivo:        input.Motivo,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.Producto{}).
		Where("id = ?", producto.ID).
		Update("stock", gorm.Expr("stock + ?", input.Cantidad)).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to adjust stock")
		return
	}
	if err := tx.Create(&movimiento).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record stock movement")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, movimiento)
}

// GetMovimientosStock lists the audit trail of one product.
func GetMovimientosStock(c *gin.Context) {
	productoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var movimientos []models.MovimientoStock
	if err := config.DB.Where("producto_id = ?", productoUUID).
		Order("created_at DESC").
		Find(&movimientos).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock movements")
		return
	}

	c.JSON(http.StatusOK, movimientos)
}

// DeleteProducto soft deletes a boutique item.
func DeleteProducto(c *gin.Context) {
	productoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	result := config.DB.Where("id = ?", productoUUID).Delete(&models.Producto{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
