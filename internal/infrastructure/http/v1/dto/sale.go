package dto

import (
	"time"

	"optipos/internal/core/apperror"
	"optipos/internal/core/id"
	"optipos/internal/core/types"
	"optipos/internal/domain/documents/sale"
)

// --- Request DTOs ---

// SaleCustomer references an existing customer or carries inline fields
// for one created with the order. Both empty means a walk-in sale.
type SaleCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// SaleLineRequest is one cart line. ProductID references the catalog;
// ProductName instead resolves (or auto-creates) a frame by name.
type SaleLineRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unitPrice"`
}

// SaleExamRequest is one examination row.
type SaleExamRequest struct {
	ExamType      string `json:"examType"`
	RightSphere   string `json:"rightSphere"`
	RightCylinder string `json:"rightCylinder"`
	RightAxis     string `json:"rightAxis"`
	LeftSphere    string `json:"leftSphere"`
	LeftCylinder  string `json:"leftCylinder"`
	LeftAxis      string `json:"leftAxis"`
	IPD           string `json:"ipd"`

	LensType       string `json:"lensType"`
	Frame          string `json:"frame"`
	FrameCondition string `json:"frameCondition"`
	Color          string `json:"color"`
	ImagePath      string `json:"imagePath"`
}

// SaleRequest is the request body for creating or replacing a sale.
type SaleRequest struct {
	Customer    *SaleCustomer     `json:"customer"`
	WarehouseID string            `json:"warehouseId"`
	Lines       []SaleLineRequest `json:"lines"`
	Exams       []SaleExamRequest `json:"examinations"`
	Gross       string            `json:"gross"`
	Discount    string            `json:"discount"`
	AmountPaid  string            `json:"amountPaid"`
	LabStatus   string            `json:"labStatus"`
}

// ToInput converts the request into a service input.
func (r *SaleRequest) ToInput() (sale.Input, error) {
	var in sale.Input

	if r.Customer != nil {
		switch {
		case r.Customer.ID != "":
			customerID, err := id.Parse(r.Customer.ID)
			if err != nil {
				return in, apperror.NewValidation("invalid customer id").
					WithDetail("value", r.Customer.ID)
			}
			in.CustomerID = &customerID
		case r.Customer.Name != "":
			in.NewCustomer = &sale.CustomerInput{
				Name:    r.Customer.Name,
				Phone:   r.Customer.Phone,
				Address: r.Customer.Address,
			}
		}
	}

	if r.WarehouseID != "" {
		warehouseID, err := id.Parse(r.WarehouseID)
		if err != nil {
			return in, apperror.NewValidation("invalid warehouse id").
				WithDetail("value", r.WarehouseID)
		}
		in.WarehouseID = warehouseID
	}

	for i, line := range r.Lines {
		cartLine := sale.CartLine{
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
		}
		if line.ProductID != "" {
			productID, err := id.Parse(line.ProductID)
			if err != nil {
				return in, apperror.NewValidation("invalid product id").
					WithDetail("lineNo", i+1)
			}
			cartLine.ProductID = productID
		}
		if line.UnitPrice != "" {
			unitPrice, err := types.NewMoneyFromString(line.UnitPrice)
			if err != nil {
				return in, apperror.NewValidation("invalid unit price").
					WithDetail("lineNo", i+1)
			}
			cartLine.UnitPrice = &unitPrice
		}
		in.Lines = append(in.Lines, cartLine)
	}

	for _, ex := range r.Exams {
		in.Exams = append(in.Exams, sale.ExamInput(ex))
	}

	var err error
	if in.Gross, err = moneyOrZero(r.Gross); err != nil {
		return in, apperror.NewValidation("invalid gross amount")
	}
	if in.Discount, err = moneyOrZero(r.Discount); err != nil {
		return in, apperror.NewValidation("invalid discount amount")
	}
	if in.AmountPaid, err = moneyOrZero(r.AmountPaid); err != nil {
		return in, apperror.NewValidation("invalid paid amount")
	}

	in.LabStatus = sale.LabStatus(r.LabStatus)
	return in, nil
}

// ListSalesRequest carries sale list filters.
type ListSalesRequest struct {
	CustomerID string `form:"customerId"`
	Invoice    string `form:"invoice"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// --- Response DTOs ---

// SaleLineResponse is one committed cart line.
type SaleLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
}

// SaleExamResponse is one committed examination row.
type SaleExamResponse struct {
	ID            string `json:"id"`
	ExamType      string `json:"examType,omitempty"`
	RightSphere   string `json:"rightSphere,omitempty"`
	RightCylinder string `json:"rightCylinder,omitempty"`
	RightAxis     string `json:"rightAxis,omitempty"`
	LeftSphere    string `json:"leftSphere,omitempty"`
	LeftCylinder  string `json:"leftCylinder,omitempty"`
	LeftAxis      string `json:"leftAxis,omitempty"`
	IPD           string `json:"ipd,omitempty"`

	LensType       string `json:"lensType,omitempty"`
	Frame          string `json:"frame,omitempty"`
	FrameCondition string `json:"frameCondition,omitempty"`
	Color          string `json:"color,omitempty"`
	ImagePath      string `json:"imagePath,omitempty"`
}

// SaleResponse is the response body for a sale.
type SaleResponse struct {
	ID          string             `json:"id"`
	InvoiceNo   string             `json:"invoiceNo"`
	CustomerID  string             `json:"customerId,omitempty"`
	WarehouseID string             `json:"warehouseId"`
	Gross       string             `json:"gross"`
	Discount    string             `json:"discount"`
	Net         string             `json:"net"`
	AmountPaid  string             `json:"amountPaid"`
	Balance     string             `json:"balance"`
	LabStatus   string             `json:"labStatus"`
	Revision    int                `json:"revision"`
	Lines       []SaleLineResponse `json:"lines"`
	Exams       []SaleExamResponse `json:"examinations"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// FromSale creates response DTO from domain entity.
func FromSale(s *sale.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:          s.ID.String(),
		InvoiceNo:   s.InvoiceNo,
		WarehouseID: s.WarehouseID.String(),
		Gross:       s.Gross.StringFixed(2),
		Discount:    s.Discount.StringFixed(2),
		Net:         s.Net.StringFixed(2),
		AmountPaid:  s.AmountPaid.StringFixed(2),
		Balance:     s.Balance.StringFixed(2),
		LabStatus:   string(s.LabStatus),
		Revision:    s.Revision,
		Lines:       make([]SaleLineResponse, 0, len(s.Lines)),
		Exams:       make([]SaleExamResponse, 0, len(s.Exams)),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.CustomerID != nil {
		resp.CustomerID = s.CustomerID.String()
	}

	for _, line := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:        line.ID.String(),
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}

	for _, ex := range s.Exams {
		resp.Exams = append(resp.Exams, SaleExamResponse{
			ID:             ex.ID.String(),
			ExamType:       ex.ExamType,
			RightSphere:    ex.RightSphere,
			RightCylinder:  ex.RightCylinder,
			RightAxis:      ex.RightAxis,
			LeftSphere:     ex.LeftSphere,
			LeftCylinder:   ex.LeftCylinder,
			LeftAxis:       ex.LeftAxis,
			IPD:            ex.IPD,
			LensType:       ex.LensType,
			Frame:          ex.Frame,
			FrameCondition: ex.FrameCondition,
			Color:          ex.Color,
			ImagePath:      ex.ImagePath,
		})
	}

	return resp
}

// FromSales maps a sale slice to response DTOs.
func FromSales(sales []*sale.Sale) []*SaleResponse {
	out := make([]*SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, FromSale(s))
	}
	return out
}
