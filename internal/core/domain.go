package core

import "time"

type (
	// Product is a catalog entry. The ID is caller-supplied at creation
	// time; uniqueness is enforced by the store's primary key.
	Product struct {
		ProductID     string   `json:"productId"`
		Name          string   `json:"name"`
		Price         Money    `json:"price"`
		Rating        *float64 `json:"rating"`
		StockQuantity int64    `json:"stockQuantity"`
	}

	// Sale is a single sale transaction row.
	Sale struct {
		SaleID      string    `json:"saleId"`
		ProductID   string    `json:"productId"`
		Timestamp   time.Time `json:"timestamp"`
		Quantity    int64     `json:"quantity"`
		UnitPrice   Money     `json:"unitPrice"`
		TotalAmount Money     `json:"totalAmount"`
	}

	// Purchase is a single stock purchase row.
	Purchase struct {
		PurchaseID string    `json:"purchaseId"`
		ProductID  string    `json:"productId"`
		Timestamp  time.Time `json:"timestamp"`
		Quantity   int64     `json:"quantity"`
		UnitCost   Money     `json:"unitCost"`
		TotalCost  Money     `json:"totalCost"`
	}

	// Expense is a raw expense row, the source of the category rollups.
	Expense struct {
		ExpenseID string    `json:"expenseId"`
		Category  string    `json:"category"`
		Amount    Money     `json:"amount"`
		Timestamp time.Time `json:"timestamp"`
	}

	// SalesSummary is a point-in-time sales rollup shown on the dashboard.
	SalesSummary struct {
		SalesSummaryID   string    `json:"salesSummaryId"`
		TotalValue       Money     `json:"totalValue"`
		ChangePercentage *float64  `json:"changePercentage"`
		Date             time.Time `json:"date"`
	}

	// PurchaseSummary is a point-in-time purchase rollup.
	PurchaseSummary struct {
		PurchaseSummaryID string    `json:"purchaseSummaryId"`
		TotalPurchased    Money     `json:"totalPurchased"`
		ChangePercentage  *float64  `json:"changePercentage"`
		Date              time.Time `json:"date"`
	}

	// ExpenseSummary is a point-in-time expense rollup.
	ExpenseSummary struct {
		ExpenseSummaryID string    `json:"expenseSummaryId"`
		TotalExpenses    Money     `json:"totalExpenses"`
		Date             time.Time `json:"date"`
	}

	// ExpenseByCategory is a per-category expense rollup tied to an
	// ExpenseSummary. The API reshapes its amount into a string before
	// responding; the handlers own that conversion.
	ExpenseByCategory struct {
		ExpenseByCategoryID string    `json:"expenseByCategoryId"`
		ExpenseSummaryID    string    `json:"expenseSummaryId"`
		Category            string    `json:"category"`
		Amount              Money     `json:"amount"`
		Date                time.Time `json:"date"`
	}

	// User exists only as seed data; no API surface reads or writes it.
	User struct {
		UserID string `json:"userId"`
		Name   string `json:"name"`
		Email  string `json:"email"`
	}
)
