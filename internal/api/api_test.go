package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	json "github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"formulagrid/internal/storage"
)

type mockSheetService struct {
	mock.Mock
}

func (m *mockSheetService) SetCell(sheetID, cellID, value string) (*Cell, error) {
	args := m.Called(sheetID, cellID, value)
	cell, _ := args.Get(0).(*Cell)
	return cell, args.Error(1)
}

func (m *mockSheetService) GetCell(sheetID, cellID string) (*Cell, error) {
	args := m.Called(sheetID, cellID)
	cell, _ := args.Get(0).(*Cell)
	return cell, args.Error(1)
}

func (m *mockSheetService) GetCellList(sheetID string) (CellList, error) {
	args := m.Called(sheetID)
	list, _ := args.Get(0).(CellList)
	return list, args.Error(1)
}

func (m *mockSheetService) Sheets() ([]string, error) {
	args := m.Called()
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type mockActions struct {
	mock.Mock
}

func (m *mockActions) SetCellAction(c *gin.Context)    { m.Called(c) }
func (m *mockActions) GetCellAction(c *gin.Context)    { m.Called(c) }
func (m *mockActions) GetSheetAction(c *gin.Context)   { m.Called(c) }
func (m *mockActions) ListSheetsAction(c *gin.Context) { m.Called(c) }

func request(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	router.ServeHTTP(w, req)
	return w
}

func _parseJsonBody(w *httptest.ResponseRecorder) (response map[string]any, err error) {
	err = json.Unmarshal(w.Body.Bytes(), &response)
	return
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	routes := [][3]string{
		{http.MethodPost, "/sheet1/A1", "SetCellAction"},
		{http.MethodGet, "/sheet1/A1", "GetCellAction"},
		{http.MethodGet, "/sheet1", "GetSheetAction"},
		{http.MethodGet, "", "ListSheetsAction"},
	}

	for _, route := range routes {
		t.Run("route "+route[2], func(t *testing.T) {
			actions := &mockActions{}
			actions.On(route[2], mock.Anything).Return()

			w := request(SetupRouter(actions), route[0], "/api/"+Version+route[1], nil)

			assert.Equal(t, http.StatusOK, w.Code)
			actions.AssertNumberOfCalls(t, route[2], 1)
		})
	}

	t.Run("healthcheck", func(t *testing.T) {
		w := request(SetupRouter(&mockActions{}), http.MethodGet, "/healthcheck", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "health", w.Body.String())
	})
}

func TestController_GetCellAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := "/api/" + Version + "/sheet1/A1"

	t.Run("found", func(t *testing.T) {
		sheets := &mockSheetService{}
		sheets.On("GetCell", "sheet1", "A1").Return(&Cell{Value: "=1+1", Result: "2"}, nil)

		w := request(SetupRouter(NewController(sheets)), http.MethodGet, path, nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "=1+1", response["value"])
		assert.Equal(t, "2", response["result"])
		assert.NotContains(t, response, "error")
		sheets.AssertExpectations(t)
	})

	for name, notFound := range map[string]error{
		"cell_not_found":  storage.ErrCellNotFound,
		"sheet_not_found": storage.ErrSheetNotFound,
	} {
		t.Run(name, func(t *testing.T) {
			sheets := &mockSheetService{}
			sheets.On("GetCell", "sheet1", "A1").Return(nil, notFound)

			w := request(SetupRouter(NewController(sheets)), http.MethodGet, path, nil)
			response, err := _parseJsonBody(w)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, notFound.Error(), response["error"])
		})
	}

	t.Run("custom_error", func(t *testing.T) {
		sheets := &mockSheetService{}
		sheets.On("GetCell", "sheet1", "A1").Return(nil, errors.New("test"))

		w := request(SetupRouter(NewController(sheets)), http.MethodGet, path, nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "test", response["error"])
	})
}

func TestController_SetCellAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := "/api/" + Version + "/sheet1/A1"

	t.Run("created", func(t *testing.T) {
		sheets := &mockSheetService{}
		sheets.On("SetCell", "sheet1", "A1", "=4/0").
			Return(&Cell{Value: "=4/0", Result: "Infinity", Error: "#DIV/0!"}, nil)

		w := request(SetupRouter(NewController(sheets)), http.MethodPost, path, map[string]string{"value": "=4/0"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "=4/0", response["value"])
		assert.Equal(t, "Infinity", response["result"])
		assert.Equal(t, "#DIV/0!", response["error"])
	})

	t.Run("service_error", func(t *testing.T) {
		sheets := &mockSheetService{}
		sheets.On("SetCell", "sheet1", "A1", "1").Return(nil, storage.ErrInvalidLabel)

		w := request(SetupRouter(NewController(sheets)), http.MethodPost, path, map[string]string{"value": "1"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "1", response["value"])
		assert.Equal(t, storage.ErrInvalidLabel.Error(), response["error"])
	})

	t.Run("storage_failure", func(t *testing.T) {
		sheets := &mockSheetService{}
		sheets.On("SetCell", "sheet1", "A1", "1").Return(nil, errors.New("disk full"))

		w := request(SetupRouter(NewController(sheets)), http.MethodPost, path, map[string]string{"value": "1"})
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "disk full", response["error"])
	})

	t.Run("empty_value_clears", func(t *testing.T) {
		sheets := &mockSheetService{}
		sheets.On("SetCell", "sheet1", "A1", "").Return(&Cell{}, nil)

		w := request(SetupRouter(NewController(sheets)), http.MethodPost, path, map[string]string{"value": ""})

		assert.Equal(t, http.StatusCreated, w.Code)
		sheets.AssertExpectations(t)
	})

	t.Run("missing_value", func(t *testing.T) {
		sheets := &mockSheetService{}

		w := request(SetupRouter(NewController(sheets)), http.MethodPost, path, map[string]string{})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		sheets.AssertNotCalled(t, "SetCell", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestController_GetSheetAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := "/api/" + Version + "/sheet1"

	t.Run("success", func(t *testing.T) {
		list := CellList{
			"A1": {Value: "2", Result: "2"},
			"B1": {Value: "=A1*A1", Result: "4"},
		}
		sheets := &mockSheetService{}
		sheets.On("GetCellList", "sheet1").Return(list, nil)

		w := request(SetupRouter(NewController(sheets)), http.MethodGet, path, nil)
		response, err := _parseJsonBody(w)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		for key, cell := range list {
			require.Contains(t, response, key)
			responseCell := response[key].(map[string]any)
			assert.Equal(t, cell.Value, responseCell["value"])
			assert.Equal(t, cell.Result, responseCell["result"])
		}
	})

	t.Run("not_found", func(t *testing.T) {
		sheets := &mockSheetService{}
		sheets.On("GetCellList", "sheet1").Return(nil, storage.ErrSheetNotFound)

		w := request(SetupRouter(NewController(sheets)), http.MethodGet, path, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("error", func(t *testing.T) {
		sheets := &mockSheetService{}
		sheets.On("GetCellList", "sheet1").Return(nil, errors.New("test"))

		w := request(SetupRouter(NewController(sheets)), http.MethodGet, path, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestController_ListSheetsAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sheets := &mockSheetService{}
	sheets.On("Sheets").Return(nil, nil)

	w := request(SetupRouter(NewController(sheets)), http.MethodGet, "/api/"+Version, nil)
	response, err := _parseJsonBody(w)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, response["sheets"])
}

func TestStoreService(t *testing.T) {
	store, err := storage.OpenBolt(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	defer store.Close()

	service := NewStoreService(store)

	t.Run("set_and_recalculate", func(t *testing.T) {
		cell, err := service.SetCell("budget", "B1", "=A1*3")
		require.NoError(t, err)
		assert.Equal(t, "0", cell.Result)
		assert.Equal(t, "#REF!", cell.Error)

		cell, err = service.SetCell("budget", "a1", "2")
		require.NoError(t, err)
		assert.Equal(t, &Cell{Value: "2", Result: "2"}, cell)

		cell, err = service.GetCell("budget", "B1")
		require.NoError(t, err)
		assert.Equal(t, &Cell{Value: "=A1*3", Result: "6"}, cell)
	})

	t.Run("partial_formula", func(t *testing.T) {
		cell, err := service.SetCell("budget", "C1", "=A1+")
		require.NoError(t, err)
		assert.Equal(t, "2", cell.Result)
		assert.Equal(t, "#PARTIAL!", cell.Error)
	})

	t.Run("label_cell", func(t *testing.T) {
		cell, err := service.SetCell("budget", "D1", "note")
		require.NoError(t, err)
		assert.Equal(t, &Cell{Value: "note", Result: "note"}, cell)
	})

	t.Run("list", func(t *testing.T) {
		list, err := service.GetCellList("BUDGET")
		require.NoError(t, err)
		assert.Len(t, list, 4)
		assert.Equal(t, "6", list["B1"].Result)

		ids, err := service.Sheets()
		require.NoError(t, err)
		assert.Equal(t, []string{"budget"}, ids)
	})

	t.Run("clear", func(t *testing.T) {
		cell, err := service.SetCell("budget", "D1", "")
		require.NoError(t, err)
		assert.Equal(t, &Cell{}, cell)

		_, err = service.GetCell("budget", "D1")
		assert.ErrorIs(t, err, storage.ErrCellNotFound)

		list, err := service.GetCellList("budget")
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := service.SetCell("budget", "1A", "1")
		assert.ErrorIs(t, err, storage.ErrInvalidLabel)

		_, err = service.GetCell("budget", "Z99")
		assert.ErrorIs(t, err, storage.ErrCellNotFound)

		_, err = service.GetCell("nothing", "A1")
		assert.ErrorIs(t, err, storage.ErrSheetNotFound)

		_, err = service.GetCellList("nothing")
		assert.ErrorIs(t, err, storage.ErrSheetNotFound)
	})
}
