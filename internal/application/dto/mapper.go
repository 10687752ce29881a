package dto

import "github.com/jhoicas/tienda-api/internal/domain/entity"

// ProductToResponse arma la respuesta con la clasificación de stock calculada.
func ProductToResponse(p *entity.Product, variants []*entity.Variant) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID,
		CategoryID:        p.CategoryID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		Images:            p.Images,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		StockStatus:       string(p.StockStatus()),
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, VariantToResponse(v, p.Threshold()))
	}
	return resp
}

// VariantToResponse clasifica el stock de la variante con el umbral del producto.
// Con umbral <= 0 se usa el umbral por defecto.
func VariantToResponse(v *entity.Variant, threshold int64) VariantResponse {
	if threshold <= 0 {
		threshold = entity.DefaultLowStockThreshold
	}
	return VariantResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		SKU:           v.SKU,
		Attributes:    v.Attributes,
		PriceDelta:    v.PriceDelta,
		StockQuantity: v.StockQuantity,
		StockStatus:   string(entity.ClassifyStock(v.StockQuantity, threshold)),
	}
}

// CartToResponse proyecta las líneas ya sincronizadas por el reconciliador.
func CartToResponse(lines []entity.CartLine) CartResponse {
	resp := CartResponse{Lines: make([]CartLineResponse, 0, len(lines)), Total: len(lines)}
	for _, l := range lines {
		line := CartLineResponse{
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			VariantSelection: l.VariantSelection,
		}
		if l.Product != nil {
			p := ProductToResponse(l.Product, nil)
			line.Product = &p
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}

// OrderToResponse proyecta un pedido con sus líneas.
func OrderToResponse(o *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		BranchID:  o.BranchID,
		Status:    o.Status,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:        it.ProductID,
			VariantID:        it.VariantID,
			Name:             it.Name,
			VariantSelection: it.VariantSelection,
			UnitPrice:        it.UnitPrice,
			Quantity:         it.Quantity,
		})
	}
	return resp
}

// UserToResponse usuario sin hash de contraseña.
func UserToResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		BranchID:  u.BranchID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// BranchToResponse sucursal.
func BranchToResponse(b *entity.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// LogEntryToResponse entrada de auditoría.
func LogEntryToResponse(e *entity.InventoryLogEntry) InventoryLogEntryResponse {
	return InventoryLogEntryResponse{
		ID:           e.ID,
		ProductID:    e.ProductID,
		VariantID:    e.VariantID,
		ChangeAmount: e.ChangeAmount,
		FinalStock:   e.FinalStock,
		Reason:       e.Reason,
		Note:         e.Note,
		CreatedAt:    e.CreatedAt,
		CreatedBy:    e.CreatedBy,
	}
}
