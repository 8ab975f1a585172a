package handler

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/menu"
)

type dishResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	CategoryID  int64  `json:"category_id"`
	Category    string `json:"category"`
	FoodType    string `json:"food_type"`
	IsSpecial   bool   `json:"is_special"`
	LikeCount   int    `json:"like_count"`
}

func toDishResponse(d *menu.Dish) dishResponse {
	return dishResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price.StringFixed(2),
		CategoryID:  d.CategoryID,
		Category:    d.Category,
		FoodType:    string(d.FoodType),
		IsSpecial:   d.IsSpecial,
		LikeCount:   d.LikeCount,
	}
}

// ListMenu returns all dishes.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.menu.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]dishResponse, len(dishes))
	for i := range dishes {
		out[i] = toDishResponse(&dishes[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListCategories returns all menu categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.menu.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]categoryResponse, len(categories))
	for i, c := range categories {
		out[i] = categoryResponse{ID: c.ID, Name: c.Name}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDish returns a single dish by ID.
func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	d, err := h.menu.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDishResponse(d))
}

type dishRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	CategoryID  int64  `json:"category_id"`
	FoodType    string `json:"food_type"`
	IsSpecial   bool   `json:"is_special"`
}

func (req *dishRequest) toDomain() (*menu.Dish, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, err
	}
	foodType := menu.FoodType(req.FoodType)
	if foodType == "" {
		foodType = menu.FoodTypeVeg
	}
	return &menu.Dish{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		CategoryID:  req.CategoryID,
		FoodType:    foodType,
		IsSpecial:   req.IsSpecial,
	}, nil
}

// CreateDish adds a dish to the menu.
func (h *Handler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var req dishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}

	if err := h.menu.Create(r.Context(), d); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDishResponse(d))
}

// UpdateDish rewrites an existing dish.
func (h *Handler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req dishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}
	d.ID = id

	if err := h.menu.Update(r.Context(), d); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDishResponse(d))
}

// DeleteDish removes a dish from the menu.
func (h *Handler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.menu.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path segment as an int64.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
