package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"property-search/internal/common/metrics"
	"property-search/internal/models"
)

// GetProperty fetches one listing by id.
func (e *Engine) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	ctx, done := e.begin(ctx, "GetProperty")
	p, err := e.getProperty(ctx, id)
	done(err)
	return p, err
}

func (e *Engine) getProperty(ctx context.Context, id string) (*models.Property, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: property id is required", ErrValidation)
	}

	res, err := esapi.GetRequest{
		Index:      e.config.IndexName,
		DocumentID: id,
	}.Do(ctx, e.client)
	if err != nil {
		return nil, transportError("get", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, &notFoundError{id: id}
	}
	if res.IsError() {
		return nil, backendError("get", res)
	}

	var doc struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode get response: %v", ErrMalformedHit, err)
	}
	if !doc.Found {
		return nil, &notFoundError{id: id}
	}

	p, err := decodeProperty(doc.Source)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddProperty indexes a listing and returns its id. A missing id is
// assigned; an existing id is overwritten.
func (e *Engine) AddProperty(ctx context.Context, p models.Property) (string, error) {
	ctx, done := e.begin(ctx, "AddProperty")
	id, err := e.addProperty(ctx, p)
	done(err)
	return id, err
}

func (e *Engine) addProperty(ctx context.Context, p models.Property) (string, error) {
	p, err := prepareProperty(p)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: marshal property: %v", ErrValidation, err)
	}

	res, err := esapi.IndexRequest{
		Index:      e.config.IndexName,
		DocumentID: p.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    e.config.Refresh,
	}.Do(ctx, e.client)
	if err != nil {
		return "", transportError("index", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", backendError("index", res)
	}

	e.logger.Info("property indexed", map[string]interface{}{"propertyId": p.ID})
	return p.ID, nil
}

// UpdateProperty merges fields into an existing listing. It reports false
// without an error when the listing does not exist.
func (e *Engine) UpdateProperty(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	ctx, done := e.begin(ctx, "UpdateProperty")
	ok, err := e.updateProperty(ctx, id, fields)
	done(err)
	return ok, err
}

func (e *Engine) updateProperty(ctx context.Context, id string, fields map[string]interface{}) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: property id is required", ErrValidation)
	}
	if err := ValidateUpdate(fields); err != nil {
		return false, err
	}

	payload, err := json.Marshal(map[string]interface{}{"doc": fields})
	if err != nil {
		return false, fmt.Errorf("%w: marshal update: %v", ErrValidation, err)
	}

	res, err := esapi.UpdateRequest{
		Index:      e.config.IndexName,
		DocumentID: id,
		Body:       bytes.NewReader(payload),
		Refresh:    e.config.Refresh,
	}.Do(ctx, e.client)
	if err != nil {
		return false, transportError("update", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, backendError("update", res)
	}

	result, err := decodeResult(res)
	if err != nil {
		return false, err
	}
	return result == "updated" || result == "noop", nil
}

// DeleteProperty removes a listing. It reports false without an error when
// the listing does not exist.
func (e *Engine) DeleteProperty(ctx context.Context, id string) (bool, error) {
	ctx, done := e.begin(ctx, "DeleteProperty")
	ok, err := e.deleteProperty(ctx, id)
	done(err)
	return ok, err
}

func (e *Engine) deleteProperty(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: property id is required", ErrValidation)
	}

	res, err := esapi.DeleteRequest{
		Index:      e.config.IndexName,
		DocumentID: id,
		Refresh:    e.config.Refresh,
	}.Do(ctx, e.client)
	if err != nil {
		return false, transportError("delete", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, backendError("delete", res)
	}

	result, err := decodeResult(res)
	if err != nil {
		return false, err
	}
	return result == "deleted", nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Result string `json:"result"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// BulkAddProperties indexes many listings in a single request and reports
// the outcome of each. Every listing is validated before anything is sent.
func (e *Engine) BulkAddProperties(ctx context.Context, properties []models.Property) (*models.BulkResult, error) {
	ctx, done := e.begin(ctx, "BulkAddProperties")
	result, err := e.bulkAddProperties(ctx, properties)
	done(err)
	return result, err
}

func (e *Engine) bulkAddProperties(ctx context.Context, properties []models.Property) (*models.BulkResult, error) {
	result := &models.BulkResult{Items: []models.BulkItemResult{}}
	if len(properties) == 0 {
		return result, nil
	}

	prepared := make([]models.Property, 0, len(properties))
	var invalid []string
	for i, p := range properties {
		p, err := prepareProperty(p)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		prepared = append(prepared, p)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %d of %d properties invalid: %s", ErrValidation, len(invalid), len(properties), strings.Join(invalid, "; "))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range prepared {
		action := map[string]interface{}{
			"index": map[string]interface{}{"_index": e.config.IndexName, "_id": p.ID},
		}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("%w: encode bulk action: %v", ErrValidation, err)
		}
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("%w: encode property %s: %v", ErrValidation, p.ID, err)
		}
	}

	res, err := esapi.BulkRequest{
		Index:   e.config.IndexName,
		Body:    &buf,
		Refresh: e.config.Refresh,
	}.Do(ctx, e.client)
	if err != nil {
		return nil, transportError("bulk", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, backendError("bulk", res)
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("%w: decode bulk response: %v", ErrQueryRejected, err)
	}

	for _, item := range br.Items {
		for _, op := range item {
			r := models.BulkItemResult{ID: op.ID, Status: op.Status, Result: op.Result}
			if op.Error != nil || op.Status >= http.StatusBadRequest {
				if op.Error != nil {
					r.Error = fmt.Sprintf("%s: %s", op.Error.Type, op.Error.Reason)
				}
				result.Failed++
			} else {
				result.Indexed++
			}
			result.Items = append(result.Items, r)
		}
	}

	if result.Failed > 0 {
		metrics.BulkItemsFailed.Add(float64(result.Failed))
		e.logger.Warn("bulk index finished with failures", map[string]interface{}{
			"indexed": result.Indexed,
			"failed":  result.Failed,
		})
	} else {
		e.logger.Info("bulk index finished", map[string]interface{}{"indexed": result.Indexed})
	}
	return result, nil
}

// prepareProperty assigns an id, fills defaults and validates.
func prepareProperty(p models.Property) (models.Property, error) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	p = p.WithDefaults()
	if err := ValidateProperty(p); err != nil {
		return p, err
	}
	return p, nil
}

func decodeResult(res *esapi.Response) (string, error) {
	var body struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode write response: %v", ErrQueryRejected, err)
	}
	return body.Result, nil
}
