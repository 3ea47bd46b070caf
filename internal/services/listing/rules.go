package listing

// PriceIsEnough reports whether price beats the listing's start and current
// bid. A nil current bid counts as lower than any price. Equal prices lose.
func PriceIsEnough(price float64, l Listing) bool {
	if !(price >= l.StartBid) {
		return false
	}
	return l.CurrentBid == nil || price > *l.CurrentBid
}

// CanAccept is PriceIsEnough restricted to open listings.
func CanAccept(price float64, l Listing) bool {
	return l.Active && PriceIsEnough(price, l)
}
