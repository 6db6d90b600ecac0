package repo

// MaxPurchasePage is the page size used when no limit is given and the
// largest page either backend returns.
const MaxPurchasePage = 100

type PurchaseFilter struct {
	Offset *int
	Limit  *int
}

func (pf PurchaseFilter) limit() int {
	if pf.Limit != nil && *pf.Limit > 0 {
		return min(*pf.Limit, MaxPurchasePage)
	}
	return MaxPurchasePage
}

func (pf PurchaseFilter) offset() int {
	if pf.Offset != nil && *pf.Offset > 0 {
		return *pf.Offset
	}
	return 0
}
