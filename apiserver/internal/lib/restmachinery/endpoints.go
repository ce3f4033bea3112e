package restmachinery

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"

	"github.com/cropline/cropline"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Endpoints is an interface to be implemented by all API endpoint
// collections, making them registrable with a router.
type Endpoints interface {
	Register(router *mux.Router)
}

// BaseEndpoints provides request-serving machinery shared by all API endpoint
// collections.
type BaseEndpoints struct {
	TokenAuthFilter Filter
}

// InboundRequest models an inbound API request along with everything needed
// to validate and serve it.
type InboundRequest struct {
	W                   http.ResponseWriter
	R                   *http.Request
	ReqBodySchemaLoader gojsonschema.JSONLoader
	ReqBodyObj          interface{}
	EndpointLogic       func() (interface{}, error)
	SuccessCode         int
}

func (b *BaseEndpoints) readAndValidateRequestBody(
	w http.ResponseWriter,
	r *http.Request,
	bodySchemaLoader gojsonschema.JSONLoader,
	bodyObj interface{},
) bool {
	defer r.Body.Close()
	bodyBytes, err := ioutil.ReadAll(r.Body)
	if err != nil {
		// Log it in case something is actually wrong...
		log.Println(errors.Wrap(err, "error reading request body"))
		// But we're going to assume this is because the request body is missing,
		// so we'll treat it as a bad request.
		b.WriteAPIResponse(
			w,
			http.StatusBadRequest,
			cropline.NewErrBadRequest("Could not read request body."),
		)
		return false
	}
	if bodySchemaLoader != nil {
		var validationResult *gojsonschema.Result
		validationResult, err = gojsonschema.Validate(
			bodySchemaLoader,
			gojsonschema.NewBytesLoader(bodyBytes),
		)
		if err != nil {
			// Log it in case something is actually wrong...
			log.Println(errors.Wrap(err, "error validating request body"))
			// But as long as the schema itself was valid, the most likely scenario
			// here is that the request body wasn't valid JSON, so we'll treat this
			// as a bad request.
			b.WriteAPIResponse(
				w,
				http.StatusBadRequest,
				cropline.NewErrBadRequest("Could not validate request body."),
			)
			return false
		}
		if !validationResult.Valid() {
			// We don't bother to log this because this is DEFINITELY a bad request.
			verrStrs := make([]string, len(validationResult.Errors()))
			for i, verr := range validationResult.Errors() {
				verrStrs[i] = verr.String()
			}
			b.WriteAPIResponse(
				w,
				http.StatusBadRequest,
				cropline.NewErrBadRequest(
					"Request body failed JSON validation",
					verrStrs...,
				),
			)
			return false
		}
	}
	if bodyObj != nil {
		if err = json.Unmarshal(bodyBytes, bodyObj); err != nil {
			log.Println(errors.Wrap(err, "error unmarshaling request body"))
			// We were already able to validate the request body, which means it was
			// valid JSON. If something went wrong with unmarshaling, it's NOT
			// because of a bad request-- it's a real, internal problem.
			b.WriteAPIResponse(
				w,
				http.StatusInternalServerError,
				cropline.NewErrInternalServer(),
			)
			return false
		}
	}
	return true
}

// ServeRequest validates (if applicable) and serves an inbound API request,
// mapping any error returned by the endpoint logic onto an appropriate HTTP
// response code.
func (b *BaseEndpoints) ServeRequest(req InboundRequest) {
	if req.ReqBodySchemaLoader != nil || req.ReqBodyObj != nil {
		if !b.readAndValidateRequestBody(
			req.W,
			req.R,
			req.ReqBodySchemaLoader,
			req.ReqBodyObj,
		) {
			return
		}
	}
	respBodyObj, err := req.EndpointLogic()
	if err != nil {
		switch e := errors.Cause(err).(type) {
		case *cropline.ErrAuthentication:
			b.WriteAPIResponse(req.W, http.StatusUnauthorized, e)
		case *cropline.ErrAuthorization:
			b.WriteAPIResponse(req.W, http.StatusForbidden, e)
		case *cropline.ErrBadRequest:
			b.WriteAPIResponse(req.W, http.StatusBadRequest, e)
		case *cropline.ErrNotFound:
			b.WriteAPIResponse(req.W, http.StatusNotFound, e)
		case *cropline.ErrConflict:
			b.WriteAPIResponse(req.W, http.StatusConflict, e)
		case *cropline.ErrStoreUnavailable:
			b.WriteAPIResponse(req.W, http.StatusServiceUnavailable, e)
		case *cropline.ErrInternalServer:
			b.WriteAPIResponse(req.W, http.StatusInternalServerError, e)
		default:
			log.Println(err)
			b.WriteAPIResponse(
				req.W,
				http.StatusInternalServerError,
				cropline.NewErrInternalServer(),
			)
		}
		return
	}
	b.WriteAPIResponse(req.W, req.SuccessCode, respBodyObj)
}

// WriteAPIResponse sends a response with the given status code and
// JSON-serialized body.
func (b *BaseEndpoints) WriteAPIResponse(
	w http.ResponseWriter,
	statusCode int,
	response interface{},
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	responseBody, ok := response.([]byte)
	if !ok {
		var err error
		if responseBody, err = json.Marshal(response); err != nil {
			log.Println(errors.Wrap(err, "error marshaling response body"))
		}
	}
	if _, err := w.Write(responseBody); err != nil {
		log.Println(errors.Wrap(err, "error writing response body"))
	}
}
