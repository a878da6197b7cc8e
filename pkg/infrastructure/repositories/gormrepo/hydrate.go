package gormrepo

import (
	"gorm.io/gorm"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/entities"
)

// hydrator rebuilds linked entities from rows. It caches what it loads so
// one read returns a consistent graph: every line pointing at the same
// variant shares one *entities.Product.
type hydrator struct {
	db        *gorm.DB
	uoms      map[int64]*entities.UoM
	templates map[int64]*entities.ProductTemplate
	products  map[int64]*entities.Product
}

func newHydrator(db *gorm.DB) *hydrator {
	return &hydrator{
		db:        db,
		uoms:      make(map[int64]*entities.UoM),
		templates: make(map[int64]*entities.ProductTemplate),
		products:  make(map[int64]*entities.Product),
	}
}

func (h *hydrator) uom(id int64) (*entities.UoM, error) {
	if u, ok := h.uoms[id]; ok {
		return u, nil
	}
	var model UoMModel
	if err := h.db.First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	u := model.ToDomain()
	h.uoms[id] = u
	return u, nil
}

func (h *hydrator) template(id int64) (*entities.ProductTemplate, error) {
	if tmpl, ok := h.templates[id]; ok {
		return tmpl, nil
	}

	var model ProductTemplateModel
	if err := h.db.First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	u, err := h.uom(model.UoMID)
	if err != nil {
		return nil, err
	}

	tmpl := &entities.ProductTemplate{
		ID:            entities.ProductTemplateID(model.ID),
		Name:          model.Name,
		DefaultCode:   model.DefaultCode,
		UoM:           u,
		StandardPrice: model.StandardPrice,
		Active:        model.Active,
	}
	h.templates[id] = tmpl

	var variants []ProductModel
	if err := h.db.Where("template_id = ?", id).Order("id").Find(&variants).Error; err != nil {
		return nil, err
	}
	values, err := h.variantValues(variants)
	if err != nil {
		return nil, err
	}

	for _, v := range variants {
		p := &entities.Product{
			ID:              entities.ProductID(v.ID),
			DefaultCode:     v.DefaultCode,
			AttributeValues: values[v.ID],
			StandardPrice:   v.StandardPrice,
			Active:          v.Active,
		}
		tmpl.AddVariant(p)
		h.products[v.ID] = p
	}
	return tmpl, nil
}

// variantValues loads the attribute values of every given variant, keyed by product id
func (h *hydrator) variantValues(variants []ProductModel) (map[int64][]entities.AttributeValue, error) {
	if len(variants) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}

	var links []ProductAttributeValueModel
	if err := h.db.Where("product_id IN ?", ids).Order("product_id, value_id").Find(&links).Error; err != nil {
		return nil, err
	}
	valueIDs := make([]int64, len(links))
	for i, l := range links {
		valueIDs[i] = l.ValueID
	}
	byID, err := h.attributeValues(valueIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]entities.AttributeValue, len(variants))
	for _, l := range links {
		if v, ok := byID[l.ValueID]; ok {
			out[l.ProductID] = append(out[l.ProductID], v)
		}
	}
	return out, nil
}

func (h *hydrator) attributeValues(ids []int64) (map[int64]entities.AttributeValue, error) {
	out := make(map[int64]entities.AttributeValue, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []AttributeValueModel
	if err := h.db.Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	for i := range models {
		out[models[i].ID] = models[i].ToDomain()
	}
	return out, nil
}

func (h *hydrator) product(id int64) (*entities.Product, error) {
	if p, ok := h.products[id]; ok {
		return p, nil
	}
	var model ProductModel
	if err := h.db.First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	if _, err := h.template(model.TemplateID); err != nil {
		return nil, err
	}
	return h.products[id], nil
}

func (h *hydrator) optionalProduct(id *int64) (*entities.Product, error) {
	if id == nil {
		return nil, nil
	}
	return h.product(*id)
}

func (h *hydrator) bom(model *BOMModel) (*entities.BillOfMaterials, error) {
	tmpl, err := h.template(model.TemplateID)
	if err != nil {
		return nil, err
	}
	u, err := h.uom(model.UoMID)
	if err != nil {
		return nil, err
	}
	product, err := h.optionalProduct(model.ProductID)
	if err != nil {
		return nil, err
	}
	tool, err := h.optionalProduct(model.ToolProductID)
	if err != nil {
		return nil, err
	}

	bom := &entities.BillOfMaterials{
		ID:              entities.BOMID(model.ID),
		Code:            model.Code,
		ProductTemplate: tmpl,
		Product:         product,
		Type:            entities.BOMType(model.Type),
		Quantity:        model.Quantity,
		UoM:             u,
		Sequence:        model.Sequence,
		PickingTypeID:   entities.PickingTypeID(model.PickingTypeID),
		CompanyID:       entities.CompanyID(model.CompanyID),
		Checked:         model.Checked,
		ToolProduct:     tool,
	}

	restrictions, err := h.restrictions(model.ID)
	if err != nil {
		return nil, err
	}

	var lines []BOMLineModel
	if err := h.db.Where("bom_id = ?", model.ID).Order("sequence, id").Find(&lines).Error; err != nil {
		return nil, err
	}
	for _, l := range lines {
		p, err := h.product(l.ProductID)
		if err != nil {
			return nil, err
		}
		lu, err := h.uom(l.UoMID)
		if err != nil {
			return nil, err
		}
		bom.AddLine(&entities.BOMLine{
			ID:              entities.LineID(l.ID),
			Product:         p,
			Quantity:        l.Quantity,
			UoM:             lu,
			Sequence:        l.Sequence,
			ApplyOnVariants: restrictions[lineKey{entities.KindBOMLine, l.ID}],
		})
	}

	var tmplLines []BOMTemplateLineModel
	if err := h.db.Where("bom_id = ?", model.ID).Order("sequence, id").Find(&tmplLines).Error; err != nil {
		return nil, err
	}
	for _, l := range tmplLines {
		lt, err := h.template(l.TemplateID)
		if err != nil {
			return nil, err
		}
		lu, err := h.uom(l.UoMID)
		if err != nil {
			return nil, err
		}
		bom.AddTemplateLine(&entities.BOMTemplateLine{
			ID:              entities.LineID(l.ID),
			ProductTemplate: lt,
			Quantity:        l.Quantity,
			UoM:             lu,
			Sequence:        l.Sequence,
			ApplyOnVariants: restrictions[lineKey{entities.KindTemplateLine, l.ID}],
		})
	}

	var params []WorkcenterParameterModel
	if err := h.db.Where("bom_id = ?", model.ID).Order("id").Find(&params).Error; err != nil {
		return nil, err
	}
	for i := range params {
		bom.WorkcenterParameters = append(bom.WorkcenterParameters, params[i].ToDomain())
	}

	return bom, nil
}

type lineKey struct {
	kind entities.LineKind
	id   int64
}

func (h *hydrator) restrictions(bomID int64) (map[lineKey][]entities.AttributeValue, error) {
	var rows []LineRestrictionModel
	if err := h.db.Where("bom_id = ?", bomID).Order("line_id, value_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ValueID
	}
	byID, err := h.attributeValues(ids)
	if err != nil {
		return nil, err
	}

	out := make(map[lineKey][]entities.AttributeValue)
	for _, r := range rows {
		key := lineKey{entities.LineKind(r.LineKind), r.LineID}
		if v, ok := byID[r.ValueID]; ok {
			out[key] = append(out[key], v)
		}
	}
	return out, nil
}
