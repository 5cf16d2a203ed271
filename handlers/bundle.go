package handlers

// HandlerBundle groups the endpoint handlers of each surface.
type HandlerBundle struct {
	Customer *CustomerHandler
	Partner  *PartnerHandler
	Admin    *AdminHandler
}
