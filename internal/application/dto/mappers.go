package dto

import (
	"time"

	"github.com/jhoicas/rentability-pro/internal/domain/entity"
	"github.com/jhoicas/rentability-pro/internal/domain/finance"
)

// NewClientResponse mapea un cliente.
func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Company:     c.Company,
		TaxID:       c.TaxID,
		ContactName: c.ContactName,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		City:        c.City,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewServiceResponse mapea un servicio.
func NewServiceResponse(s *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:             s.ID,
		Name:           s.Name,
		Category:       s.Category,
		Description:    s.Description,
		Unit:           s.Unit,
		BaseCost:       s.BaseCost,
		FixedOverhead:  s.FixedOverhead,
		Margin:         s.Margin,
		SuggestedPrice: s.SuggestedPrice,
		Price:          s.Price,
		TimesQuoted:    s.TimesQuoted,
		TimesSold:      s.TimesSold,
		Active:         s.Active,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// NewQuoteResponse mapea una cotización; names resuelve nombres de cliente y servicios (puede ser nil).
func NewQuoteResponse(q *entity.Quote, today time.Time, clientName string, serviceNames map[string]string) QuoteResponse {
	out := QuoteResponse{
		ID:              q.ID,
		Number:          q.Number,
		ClientID:        q.ClientID,
		ClientName:      clientName,
		Title:           q.Title,
		IssueDate:       FormatDate(q.IssueDate),
		ValidUntil:      FormatDate(q.ValidUntil),
		EstimatedDays:   q.EstimatedDays,
		Status:          string(q.EffectiveStatus(today)),
		StoredStatus:    string(q.Status),
		DiscountPercent: q.DiscountPercent,
		VATPercent:      q.VATPercent,
		Subtotal:        q.Subtotal,
		DiscountValue:   q.DiscountValue,
		VATValue:        q.VATValue,
		Total:           q.Total,
		Notes:           q.Notes,
		Terms:           q.Terms,
		ApprovedAt:      FormatTimePtr(q.ApprovedAt),
		RejectedAt:      FormatTimePtr(q.RejectedAt),
		RejectionReason: q.RejectionReason,
		ProjectID:       q.ProjectID,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
	for _, it := range q.Items {
		out.Items = append(out.Items, QuoteItemResponse{
			ID:              it.ID,
			ServiceID:       it.ServiceID,
			ServiceName:     serviceNames[it.ServiceID],
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Subtotal:        it.Subtotal,
			Position:        it.Position,
		})
	}
	return out
}

// NewProjectResponse mapea un proyecto sin resumen.
func NewProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:                     p.ID,
		QuoteID:                p.QuoteID,
		ClientID:               p.ClientID,
		Name:                   p.Name,
		Description:            p.Description,
		StartDate:              FormatDate(p.StartDate),
		EstimatedEndDate:       FormatDatePtr(p.EstimatedEndDate),
		ActualEndDate:          FormatDatePtr(p.ActualEndDate),
		Status:                 string(p.Status),
		Progress:               p.Progress,
		TotalValue:             p.TotalValue,
		EstimatedCost:          p.EstimatedCost,
		ActualCost:             p.ActualCost,
		EstimatedProfitability: p.EstimatedProfitability,
		ActualProfitability:    p.ActualProfitability,
		Notes:                  p.Notes,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

// NewProjectSummary mapea el rollup financiero.
func NewProjectSummary(s finance.Summary, today time.Time) *ProjectSummary {
	out := &ProjectSummary{
		TotalPlanned:   s.TotalPlanned,
		TotalReceived:  s.TotalReceived,
		TotalSpent:     s.TotalSpent,
		PendingBalance: s.PendingBalance,
		ActualProfit:   s.ActualProfit,
		PercentPaid:    s.PercentPaid,
		Overdue:        make([]PaymentPlanResponse, 0, len(s.Overdue)),
	}
	for i := range s.Overdue {
		out.Overdue = append(out.Overdue, NewPaymentPlanResponse(&s.Overdue[i], today))
	}
	return out
}

// NewPaymentPlanResponse mapea una cuota con su estado efectivo.
func NewPaymentPlanResponse(p *entity.PaymentPlan, today time.Time) PaymentPlanResponse {
	return PaymentPlanResponse{
		ID:          p.ID,
		ProjectID:   p.ProjectID,
		Number:      p.Number,
		DueDate:     FormatDate(p.DueDate),
		Amount:      p.Amount,
		Type:        string(p.Type),
		Percent:     p.Percent,
		Status:      string(p.EffectiveStatus(today)),
		Description: p.Description,
	}
}

// NewPaymentPlanList mapea el plan completo con sus totales.
func NewPaymentPlanList(plans []entity.PaymentPlan, today time.Time) PaymentPlanListResponse {
	out := PaymentPlanListResponse{
		Items:        make([]PaymentPlanResponse, 0, len(plans)),
		PercentTotal: finance.PercentTotal(plans),
	}
	for i := range plans {
		out.Items = append(out.Items, NewPaymentPlanResponse(&plans[i], today))
		out.AmountTotal = out.AmountTotal.Add(plans[i].Amount)
	}
	if w := finance.CheckPercentages(plans); w != nil && len(plans) > 0 {
		out.Warning = w.Error()
	}
	return out
}

// NewPaymentResponse mapea un pago.
func NewPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		ProjectID:     p.ProjectID,
		PaymentPlanID: p.PaymentPlanID,
		Date:          FormatDate(p.Date),
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

// NewExpenseCategoryResponse mapea una categoría.
func NewExpenseCategoryResponse(c *entity.ExpenseCategory) ExpenseCategoryResponse {
	return ExpenseCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Active:      c.Active,
	}
}

// NewDisbursementResponse mapea un desembolso.
func NewDisbursementResponse(d *entity.Disbursement) DisbursementResponse {
	return DisbursementResponse{
		ID:            d.ID,
		ProjectID:     d.ProjectID,
		CategoryID:    d.CategoryID,
		Date:          FormatDate(d.Date),
		Description:   d.Description,
		Amount:        d.Amount,
		Vendor:        d.Vendor,
		InvoiceNumber: d.InvoiceNumber,
		Method:        d.Method,
		Status:        string(d.Status),
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// NewSettingsResponse mapea la configuración completa.
func NewSettingsResponse(s entity.Settings) SettingsResponse {
	return SettingsResponse{
		Overhead:      s.Overhead.Clone(),
		FixedCosts:    s.FixedCosts.Clone(),
		Tools:         s.Tools.Clone(),
		OverheadTotal: s.Overhead.Sum(),
		FixedTotal:    s.FixedCosts.Sum(),
		ToolsTotal:    s.Tools.Sum(),
		Company: CompanyProfileDTO{
			Name:    s.Company.Name,
			NIT:     s.Company.NIT,
			Address: s.Company.Address,
			City:    s.Company.City,
			Phone:   s.Company.Phone,
			Email:   s.Company.Email,
			Website: s.Company.Website,
			LogoURL: s.Company.LogoURL,
		},
		QuoteDefaults: QuoteDefaultsDTO{
			ValidityDays:  s.QuoteDefaults.ValidityDays,
			VATPercent:    s.QuoteDefaults.VATPercent,
			NumberPrefix:  s.QuoteDefaults.NumberPrefix,
			NumberPadding: s.QuoteDefaults.NumberPadding,
			Terms:         s.QuoteDefaults.Terms,
		},
	}
}
