package httpapi

import (
	"github.com/shopspring/decimal"

	"github.com/rtnapps/Loyalty-Program/internal/models"
	"github.com/rtnapps/Loyalty-Program/internal/pipeline"
)

// rewardsRequest is the POS-facing inbound contract (spec.md §6). Unknown
// fields are ignored, per spec.
type rewardsRequest struct {
	StoreLocationID string            `json:"store_location_id"`
	TransactionID   string            `json:"transaction_id"`
	CashierID       string            `json:"cashier_id"`
	LoyaltyID       string            `json:"loyalty_id"`
	AVTStatus       string            `json:"avt_status"`
	Lines           []rewardsReqLine  `json:"lines"`
}

// rewardsReqLine accepts either item_code or pos_code for the UPC, and
// falls back to extended_price/quantity when regular_unit_price is absent —
// spec.md §6: "regular_unit_price (fallback extended_price)".
type rewardsReqLine struct {
	LineNumber        int             `json:"line_number"`
	ItemCode          string          `json:"item_code"`
	POSCode           string          `json:"pos_code"`
	SalesQuantity     int             `json:"sales_quantity"`
	RegularUnitPrice  *decimal.Decimal `json:"regular_unit_price"`
	ExtendedPrice     *decimal.Decimal `json:"extended_price"`
	Description       string          `json:"description"`
}

func (l rewardsReqLine) upc() string {
	if l.ItemCode != "" {
		return l.ItemCode
	}
	return l.POSCode
}

func (l rewardsReqLine) unitPrice() decimal.Decimal {
	if l.RegularUnitPrice != nil {
		return *l.RegularUnitPrice
	}
	if l.ExtendedPrice != nil && l.SalesQuantity > 0 {
		return l.ExtendedPrice.Div(decimal.NewFromInt(int64(l.SalesQuantity)))
	}
	return decimal.Zero
}

func (r rewardsRequest) toPipelineRequest() pipeline.Request {
	lines := make([]models.BasketLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, models.BasketLine{
			LineNumber:  l.LineNumber,
			UPC:         l.upc(),
			Quantity:    l.SalesQuantity,
			UnitPrice:   l.unitPrice(),
			Description: l.Description,
		})
	}
	return pipeline.Request{
		StoreLocationID: r.StoreLocationID,
		TransactionID:   r.TransactionID,
		CashierID:       r.CashierID,
		LoyaltyID:       r.LoyaltyID,
		AVTStatus:       r.AVTStatus,
		Lines:           lines,
	}
}

// rewardDTO is one entry of the outbound rewards array (spec.md §6).
type rewardDTO struct {
	RewardID   string          `json:"reward_id"`
	LineNumber int             `json:"line_number"`
	Value      decimal.Decimal `json:"value"`
	ShortDesc  string          `json:"short_desc"`
	LongDesc   string          `json:"long_desc"`
}

// rewardsResponse is the outbound POS response (spec.md §6).
type rewardsResponse struct {
	Rewards         []rewardDTO `json:"rewards"`
	ReceiptLines    []string    `json:"receipt_lines"`
	Tier3Eligible   bool        `json:"tier3_eligible"`
	CIDFundEligible bool        `json:"cid_fund_eligible"`
	AgeVerified     bool        `json:"age_verified"`
	EAIVVerified    bool        `json:"eaiv_verified"`
}

func toRewardsResponse(resp pipeline.Response) rewardsResponse {
	rewards := make([]rewardDTO, 0, len(resp.Rewards))
	for _, r := range resp.Rewards {
		rewards = append(rewards, rewardDTO{
			RewardID:   r.RewardID,
			LineNumber: r.LineNumber,
			Value:      r.Value,
			ShortDesc:  r.ShortDesc,
			LongDesc:   r.LongDesc,
		})
	}
	return rewardsResponse{
		Rewards:         rewards,
		ReceiptLines:    resp.ReceiptLines,
		Tier3Eligible:   resp.Tier3Eligible,
		CIDFundEligible: resp.CIDFundEligible,
		AgeVerified:     resp.AgeVerified,
		EAIVVerified:    resp.EAIVVerified,
	}
}

// errorResponse is returned for infrastructure faults (spec.md §7):
// "return an error response to the POS with no rewards."
type errorResponse struct {
	Error string `json:"error"`
}
