package public

import (
	"github.com/tallow-shop/storefront/internal/cart"
	"github.com/tallow-shop/storefront/internal/checkout"
	"github.com/tallow-shop/storefront/internal/http/response"
	"github.com/tallow-shop/storefront/internal/service"
)

var cartLineErrorRules = []response.ErrorRule{
	{Target: service.ErrCartSessionRequired, Code: response.CodeBadRequest, Message: "cart session missing"},
	{Target: cart.ErrIndexOutOfRange, Code: response.CodeNotFound, Message: "cart line not found"},
	{Target: cart.ErrInvalidQuantity, Code: response.CodeBadRequest, Message: "quantity out of range"},
}

var cartAddErrorRules = []response.ErrorRule{
	{Target: service.ErrCartSessionRequired, Code: response.CodeBadRequest, Message: "cart session missing"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Message: "product not found"},
	{Target: service.ErrVariantRequired, Code: response.CodeBadRequest, Message: "please select a variant"},
	{Target: cart.ErrVariantNotFound, Code: response.CodeBadRequest, Message: "variant not available"},
	{Target: cart.ErrInvalidQuantity, Code: response.CodeBadRequest, Message: "quantity out of range"},
}

var checkoutErrorRules = []response.ErrorRule{
	{Target: service.ErrCartSessionRequired, Code: response.CodeBadRequest, Message: "cart session missing"},
	{Target: service.ErrCheckoutUnavailable, Code: response.CodeServiceUnavailable, Message: "checkout unavailable"},
	{Target: cart.ErrEmptyCart, Code: response.CodeBadRequest, Message: "cart is empty"},
	{Target: cart.ErrVariantNotFound, Code: response.CodeBadRequest, Message: "cart contains unavailable items"},
	{Target: checkout.ErrHandoffInvalid, Code: response.CodeBadRequest, Message: "cart contains unavailable items"},
	{Target: checkout.ErrConfigInvalid, Code: response.CodeServiceUnavailable, Message: "checkout unavailable"},
	{Target: checkout.ErrRequestFailed, Code: response.CodeBadGateway, Message: "checkout provider request failed"},
}

var reviewSubmitErrorRules = []response.ErrorRule{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Message: "product not found"},
	{Target: service.ErrReviewRatingInvalid, Code: response.CodeBadRequest, Message: "rating must be between 1 and 5"},
	{Target: service.ErrReviewAuthorRequired, Code: response.CodeBadRequest, Message: "name is required"},
	{Target: service.ErrReviewBodyRequired, Code: response.CodeBadRequest, Message: "review text is required"},
	{Target: service.ErrReviewFieldTooLong, Code: response.CodeBadRequest, Message: "review field too long"},
	{Target: service.ErrReviewEmailInvalid, Code: response.CodeBadRequest, Message: "email is invalid"},
}
