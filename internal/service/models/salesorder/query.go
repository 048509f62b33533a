package salesorder

// QuerySalesOrdersModel represents filter parameters for querying archived orders.
type QuerySalesOrdersModel struct {
	Ids         []int64 `json:"ids,omitempty"`
	StoreIds    []int64 `json:"storeIds,omitempty"`
	CustomerIds []int64 `json:"customerIds,omitempty"`
	Limit       int     `json:"limit,omitempty"`
	Offset      int     `json:"offset,omitempty"`
}
