package backend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmdiallo/gescom-pos/internal/domain/catalog"
	"github.com/kmdiallo/gescom-pos/internal/domain/sale"
	"github.com/kmdiallo/gescom-pos/internal/domain/stock"
)

// Wire types mirror the backend's French field names exactly; domain types
// stay English. Conversion happens only at this boundary.

type produitDTO struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	Nom       string          `json:"nom"`
	PrixVente decimal.Decimal `json:"prix_vente"`
}

func (d produitDTO) toDomain() catalog.Product {
	return catalog.Product{
		ID:        d.ID,
		Reference: d.Reference,
		Name:      d.Nom,
		SalePrice: d.PrixVente,
	}
}

type clientDTO struct {
	ID        int64  `json:"id"`
	Nom       string `json:"nom"`
	Telephone string `json:"telephone"`
	Email     string `json:"email"`
}

func (d clientDTO) toDomain() catalog.Client {
	return catalog.Client{
		ID:    d.ID,
		Name:  d.Nom,
		Phone: d.Telephone,
		Email: d.Email,
	}
}

type entrepotDTO struct {
	ID      int64  `json:"id"`
	Nom     string `json:"nom"`
	Adresse string `json:"adresse"`
}

func (d entrepotDTO) toDomain() catalog.Warehouse {
	return catalog.Warehouse{
		ID:      d.ID,
		Name:    d.Nom,
		Address: d.Adresse,
	}
}

type stockDisponibleResponse struct {
	Stocks []stockDTO `json:"stocks"`
}

type stockDTO struct {
	EntrepotID         int64 `json:"entrepot_id"`
	QuantiteDisponible int   `json:"quantite_disponible"`
	QuantiteTotale     int   `json:"quantite_totale"`
	QuantiteReservee   int   `json:"quantite_reservee"`
}

func (d stockDTO) toDomain() stock.Availability {
	return stock.Availability{
		WarehouseID: d.EntrepotID,
		Available:   d.QuantiteDisponible,
		Total:       d.QuantiteTotale,
		Reserved:    d.QuantiteReservee,
	}
}

// montant renders a money amount on the wire with two fixed decimal places,
// the same form the views use, so the backend never sees a trimmed "1500"
// where "1500.00" is meant.
type montant decimal.Decimal

func (m montant) MarshalJSON() ([]byte, error) {
	return []byte(`"` + decimal.Decimal(m).StringFixed(2) + `"`), nil
}

type venteRequest struct {
	Client       *int64          `json:"client"`
	Remise       montant         `json:"remise"`
	ModePaiement *string         `json:"mode_paiement"`
	MontantPaye  montant         `json:"montant_paye"`
	DateEcheance *string         `json:"date_echeance"`
	Notes        string          `json:"notes"`
	LignesVente  []ligneVenteDTO `json:"lignes_vente"`
}

type ligneVenteDTO struct {
	Produit      int64   `json:"produit"`
	Entrepot     int64   `json:"entrepot"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire montant `json:"prix_unitaire"`
}

func venteFromSale(s *sale.Sale) venteRequest {
	req := venteRequest{
		Client:      s.ClientID,
		Remise:      montant(s.Discount),
		MontantPaye: montant(s.AmountPaid),
		Notes:       s.Notes,
		LignesVente: make([]ligneVenteDTO, 0, len(s.Lines)),
	}
	if s.PaymentMode != "" {
		mode := string(s.PaymentMode)
		req.ModePaiement = &mode
	}
	if s.DueDate != nil {
		due := s.DueDate.Format(time.DateOnly)
		req.DateEcheance = &due
	}
	for _, l := range s.Lines {
		req.LignesVente = append(req.LignesVente, ligneVenteDTO{
			Produit:      l.ProductID,
			Entrepot:     l.WarehouseID,
			Quantite:     l.Quantity,
			PrixUnitaire: montant(l.UnitPrice),
		})
	}
	return req
}
