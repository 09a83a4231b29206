package solana

// SignatureInfo from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts defines optional parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // Start searching backwards from this signature
	Until  string // Search until this signature
	Limit  int    // Maximum number of signatures to return
}

// TokenAsset holds the metadata fields of a DAS getAsset response the proxy
// cares about.
type TokenAsset struct {
	Name   string
	Symbol string
	Image  string
}
