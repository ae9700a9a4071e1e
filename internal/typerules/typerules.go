// Package typerules maps a request's supplier type and region to the field
// groups that apply to it. All functions are pure and total over the enum
// domains; unknown values behave like the most restrictive case.
package typerules

import "github.com/coloriginz/supplier-onboarding-backend/pkg/enums"

// ShowFinancial reports whether the financial identifier group (CoC number,
// VAT number, IBAN, bank name) applies. Auction growers settle through the
// auction, so they carry no financial identifiers of their own.
func ShowFinancial(supplierType enums.SupplierType) bool {
	switch supplierType {
	case enums.SupplierTypeKoop, enums.SupplierTypeOKweker:
		return true
	default:
		return false
	}
}

// ShowDirector reports whether director details are required. They are only
// collected for non-auction suppliers outside the EU.
func ShowDirector(supplierType enums.SupplierType, region enums.Region) bool {
	return ShowFinancial(supplierType) && region == enums.RegionROW
}

// ShowAuction reports whether the auction number and location apply.
func ShowAuction(supplierType enums.SupplierType) bool {
	return supplierType == enums.SupplierTypeXKweker
}

// ShowBankUpload reports whether a bank details document can be uploaded.
func ShowBankUpload(supplierType enums.SupplierType) bool {
	return ShowFinancial(supplierType)
}

// RequiresIncoterm reports whether the purchaser must provide an incoterm
// before the request can advance to finance.
func RequiresIncoterm(supplierType enums.SupplierType) bool {
	return ShowFinancial(supplierType)
}
