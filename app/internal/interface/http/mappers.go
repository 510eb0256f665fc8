package http

import (
	domcart "example.com/localspark/app/internal/domain/cart"
	domcategory "example.com/localspark/app/internal/domain/category"
	domevent "example.com/localspark/app/internal/domain/event"
	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domnotification "example.com/localspark/app/internal/domain/notification"
	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
	domregistration "example.com/localspark/app/internal/domain/registration"
	domuser "example.com/localspark/app/internal/domain/user"
)

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"location":   u.Location,
		"latitude":   u.Latitude,
		"longitude":  u.Longitude,
		"role_code":  u.RoleCode,
		"created_at": u.CreatedAt,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":             p.ID,
		"name":           p.Name,
		"description":    p.Description,
		"category":       p.Category,
		"price":          p.Price,
		"original_price": p.OriginalPrice,
		"image_url":      p.ImageURL,
		"brand":          p.Brand,
		"rating":         p.Rating,
		"review_count":   p.ReviewCount,
		"stock_quantity": p.StockQuantity,
		"sku":            p.SKU,
		"tags":           tags,
		"is_active":      p.IsActive,
		"created_at":     p.CreatedAt,
	}
}

func mapProducts(items []*domproduct.Product) []map[string]any {
	resp := make([]map[string]any, 0, len(items))
	for _, p := range items {
		resp = append(resp, mapProduct(p))
	}
	return resp
}

func mapEvent(e *domevent.Event) map[string]any {
	return map[string]any{
		"id":                e.ID,
		"title":             e.Title,
		"description":       e.Description,
		"category":          e.Category,
		"image_url":         e.ImageURL,
		"price":             e.Price,
		"start_date":        e.StartDate,
		"end_date":          e.EndDate,
		"location":          e.Location,
		"address":           e.Address,
		"latitude":          e.Latitude,
		"longitude":         e.Longitude,
		"organizer_name":    e.OrganizerName,
		"organizer_email":   e.OrganizerEmail,
		"max_attendees":     e.MaxAttendees,
		"current_attendees": e.CurrentAttendees,
		"is_active":         e.IsActive,
		"created_at":        e.CreatedAt,
	}
}

func mapEvents(items []*domevent.Event) []map[string]any {
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, mapEvent(e))
	}
	return resp
}

func mapCartItem(item *domcart.Item) map[string]any {
	return map[string]any{
		"id":         item.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
		"created_at": item.CreatedAt,
	}
}

func mapCart(cart *domcart.Cart) map[string]any {
	items := make([]map[string]any, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, map[string]any{
			"id":         line.ID,
			"product_id": line.ProductID,
			"quantity":   line.Quantity,
			"line_total": line.Total(),
			"product":    mapProduct(line.Product),
		})
	}
	return map[string]any{
		"items":      items,
		"item_count": cart.ItemCount,
		"subtotal":   cart.Subtotal,
	}
}

func mapFavorite(f *domfavorite.Favorite) map[string]any {
	return map[string]any{
		"id":         f.ID,
		"kind":       f.Kind,
		"target_id":  f.TargetID,
		"created_at": f.CreatedAt,
	}
}

func mapRegistration(r *domregistration.Registration) map[string]any {
	return map[string]any{
		"id":         r.ID,
		"user_id":    r.UserID,
		"event_id":   r.EventID,
		"created_at": r.CreatedAt,
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      item.Price,
			"quantity":   item.Quantity,
		})
	}

	return map[string]any{
		"id":             o.ID,
		"user_id":        o.UserID,
		"status":         o.Status,
		"payment_method": o.PaymentMethod,
		"total_amount":   o.TotalAmount,
		"created_at":     o.CreatedAt,
		"items":          items,
	}
}

func mapOrders(orders []*domorder.Order) []map[string]any {
	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	return resp
}

func mapNotification(n *domnotification.Notification) map[string]any {
	return map[string]any{
		"id":         n.ID,
		"type":       n.Type,
		"title":      n.Title,
		"message":    n.Message,
		"read":       n.Read,
		"created_at": n.CreatedAt,
	}
}

func mapCategories(items []domcategory.Category) []map[string]any {
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, map[string]any{
			"name":  c.Name,
			"slug":  c.Slug,
			"count": c.Count,
		})
	}
	return resp
}

func mapFacets(f *domcategory.Facets) map[string]any {
	brands := f.Brands
	if brands == nil {
		brands = []string{}
	}
	return map[string]any{
		"product_categories": mapCategories(f.ProductCategories),
		"event_categories":   mapCategories(f.EventCategories),
		"brands":             brands,
		"price_range": map[string]any{
			"min": f.PriceRange.Min,
			"max": f.PriceRange.Max,
		},
		"availability": map[string]any{
			"in_stock":     f.Availability.InStock,
			"out_of_stock": f.Availability.OutOfStock,
		},
	}
}
