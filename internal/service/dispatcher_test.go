package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-relay/bot/internal/interfaces/mocks"
	"chat-relay/bot/internal/llm"
	"chat-relay/bot/internal/model"
	"chat-relay/bot/internal/repository"
	"chat-relay/bot/internal/service"
)

const (
	testUser   model.UserID = 42
	testChatID int64        = 1042
)

type dispatcherDeps struct {
	history   *repository.MemoryRepository
	selector  *service.ModelSelector
	generator *mocks.MockGenerator
	transport *mocks.MockTransport
}

func setupDispatcher(t *testing.T) (*service.Dispatcher, dispatcherDeps) {
	profiles, err := llm.NewProfileSet("flash", "pro", "Intelligent assistant")
	require.NoError(t, err)

	deps := dispatcherDeps{
		history:   repository.NewMemoryRepository(repository.DefaultMaxHistory),
		selector:  service.NewModelSelector(),
		generator: mocks.NewMockGenerator(t),
		transport: mocks.NewMockTransport(t),
	}
	d := service.NewDispatcher(deps.history, deps.selector, deps.generator, deps.transport, profiles)
	return d, deps
}

func textEvent(chatType model.ChatType, text string) model.Event {
	return model.Event{UserID: testUser, ChatID: testChatID, ChatType: chatType, Text: text}
}

func commandEvent(chatType model.ChatType, command string) model.Event {
	return model.Event{UserID: testUser, ChatID: testChatID, ChatType: chatType, Command: command, Text: "/" + command}
}

func handle(id int) model.MessageHandle {
	return model.MessageHandle{ChatID: testChatID, MessageID: id}
}

func requestFor(choice model.Choice, historyLen int, input string) interface{} {
	return mock.MatchedBy(func(req *llm.GenerateRequest) bool {
		return req.Choice == choice && len(req.History) == historyLen && req.Input.Text() == input
	})
}

func TestDispatcher_TextRound(t *testing.T) {
	ctx := context.Background()

	t.Run("Success replaces the placeholder and records both turns", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, service.GeneratingNotice).Return(handle(7), nil).Once()
		deps.generator.On("Generate", mock.Anything, requestFor(model.ChoiceCapable, 0, "Who is John Lennon?")).
			Return("A musician.", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(7), "A musician.").Return(nil).Once()

		d.Handle(ctx, textEvent(model.ChatPrivate, "Who is John Lennon?"))

		history, err := deps.history.Get(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, []model.Turn{
			model.UserTurn("Who is John Lennon?"),
			model.ModelTurn("A musician."),
		}, history)
	})

	t.Run("Second round sends the earlier turns as history", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		_, err := deps.history.Append(ctx, testUser, model.UserTurn("Hi"))
		require.NoError(t, err)
		_, err = deps.history.Append(ctx, testUser, model.ModelTurn("Hello!"))
		require.NoError(t, err)

		deps.transport.On("SendText", mock.Anything, testChatID, service.GeneratingNotice).Return(handle(8), nil).Once()
		deps.generator.On("Generate", mock.Anything, requestFor(model.ChoiceCapable, 2, "And Paul?")).
			Return("Also a musician.", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(8), "Also a musician.").Return(nil).Once()

		d.Handle(ctx, textEvent(model.ChatPrivate, "And Paul?"))

		history, err := deps.history.Get(ctx, testUser)
		require.NoError(t, err)
		assert.Len(t, history, 4)
	})

	t.Run("Generation failure keeps the user turn and sends the notice", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, service.GeneratingNotice).Return(handle(9), nil).Once()
		deps.generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("backend down")).Once()
		deps.transport.On("SendText", mock.Anything, testChatID, service.ErrorNotice).Return(handle(10), nil).Once()

		d.Handle(ctx, textEvent(model.ChatPrivate, "Who is John Lennon?"))

		history, err := deps.history.Get(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, []model.Turn{model.UserTurn("Who is John Lennon?")}, history)
	})

	t.Run("Failed placeholder sends the reply as a new message", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, service.GeneratingNotice).
			Return(model.MessageHandle{}, errors.New("flood wait")).Once()
		deps.generator.On("Generate", mock.Anything, mock.Anything).Return("A musician.", nil).Once()
		deps.transport.On("SendText", mock.Anything, testChatID, "A musician.").Return(handle(11), nil).Once()

		d.Handle(ctx, textEvent(model.ChatPrivate, "Who is John Lennon?"))
	})

	t.Run("Failed edit falls back to a new message", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, service.GeneratingNotice).Return(handle(12), nil).Once()
		deps.generator.On("Generate", mock.Anything, mock.Anything).Return("A musician.", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(12), "A musician.").Return(errors.New("message to edit not found")).Once()
		deps.transport.On("SendText", mock.Anything, testChatID, "A musician.").Return(handle(13), nil).Once()

		d.Handle(ctx, textEvent(model.ChatPrivate, "Who is John Lennon?"))
	})

	t.Run("Fast tier is used after a switch", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		_, err := deps.selector.Toggle(testUser, model.ChatPrivate)
		require.NoError(t, err)

		deps.transport.On("SendText", mock.Anything, testChatID, service.GeneratingNotice).Return(handle(14), nil).Once()
		deps.generator.On("Generate", mock.Anything, requestFor(model.ChoiceFast, 0, "hi")).Return("hello", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(14), "hello").Return(nil).Once()

		d.Handle(ctx, textEvent(model.ChatGroup, "  hi  "))
	})

	t.Run("Blank text is ignored", func(t *testing.T) {
		d, deps := setupDispatcher(t)

		d.Handle(ctx, textEvent(model.ChatPrivate, "   "))

		users, err := deps.history.Users(ctx)
		require.NoError(t, err)
		assert.Zero(t, users)
	})

	t.Run("History store failure sends the notice", func(t *testing.T) {
		profiles, err := llm.NewProfileSet("flash", "pro", "")
		require.NoError(t, err)
		store := mocks.NewMockHistoryStore(t)
		transport := mocks.NewMockTransport(t)
		d := service.NewDispatcher(store, service.NewModelSelector(), mocks.NewMockGenerator(t), transport, profiles)

		store.On("Append", mock.Anything, testUser, model.UserTurn("hi")).Return(nil, errors.New("disk I/O error")).Once()
		transport.On("SendText", mock.Anything, testChatID, service.ErrorNotice).Return(handle(15), nil).Once()

		d.Handle(ctx, textEvent(model.ChatPrivate, "hi"))
	})
}

func TestDispatcher_Commands(t *testing.T) {
	ctx := context.Background()

	t.Run("Start sends the welcome text", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, service.WelcomeText).Return(handle(1), nil).Once()

		d.Handle(ctx, commandEvent(model.ChatPrivate, service.CommandStart))
	})

	t.Run("Clear empties the history", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		_, err := deps.history.Append(ctx, testUser, model.UserTurn("Hi"))
		require.NoError(t, err)
		deps.transport.On("SendText", mock.Anything, testChatID, service.HistoryClearedText).Return(handle(2), nil).Twice()

		d.Handle(ctx, commandEvent(model.ChatPrivate, service.CommandClear))
		d.Handle(ctx, commandEvent(model.ChatGroup, service.CommandClear))

		history, err := deps.history.Get(ctx, testUser)
		require.NoError(t, err)
		assert.Empty(t, history)

		users, err := deps.history.Users(ctx)
		require.NoError(t, err)
		assert.Zero(t, users)
	})

	t.Run("Switch in a private chat toggles the tier", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, fmt.Sprintf(service.SwitchConfirmFormat, "flash", model.ChoiceFast)).
			Return(handle(3), nil).Once()
		deps.transport.On("SendText", mock.Anything, testChatID, fmt.Sprintf(service.SwitchConfirmFormat, "pro", model.ChoiceCapable)).
			Return(handle(4), nil).Once()

		d.Handle(ctx, commandEvent(model.ChatPrivate, service.CommandSwitch))
		assert.Equal(t, model.ChoiceFast, deps.selector.Get(testUser))

		d.Handle(ctx, commandEvent(model.ChatPrivate, service.CommandSwitch))
		assert.Equal(t, model.ChoiceCapable, deps.selector.Get(testUser))
	})

	t.Run("Switch in a group is rejected", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, service.SwitchRejectedText).Return(handle(5), nil).Once()

		d.Handle(ctx, commandEvent(model.ChatGroup, service.CommandSwitch))

		assert.Equal(t, model.ChoiceCapable, deps.selector.Get(testUser))
		assert.Zero(t, deps.selector.Users())
	})

	t.Run("Unknown command is ignored", func(t *testing.T) {
		d, _ := setupDispatcher(t)
		d.Handle(ctx, commandEvent(model.ChatPrivate, "help"))
	})
}

func TestDispatcher_Photo(t *testing.T) {
	ctx := context.Background()
	small := model.PhotoRef{FileID: "small", Width: 90, Height: 90}
	large := model.PhotoRef{FileID: "large", Width: 1280, Height: 960}
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0}

	photoEvent := func(chatType model.ChatType, caption string) model.Event {
		return model.Event{
			UserID:   testUser,
			ChatID:   testChatID,
			ChatType: chatType,
			Caption:  caption,
			Photos:   []model.PhotoRef{small, large},
		}
	}

	imageRequest := func(choice model.Choice, caption string) interface{} {
		return mock.MatchedBy(func(req *llm.GenerateRequest) bool {
			parts := req.Input.Parts
			return req.Choice == choice &&
				len(req.History) == 0 &&
				len(parts) == 2 &&
				parts[0].MIMEType == "image/jpeg" &&
				parts[1].Text == "Image caption:\n"+caption+"\n"
		})
	}

	t.Run("Group photo uses the fast tier and leaves history alone", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		// The default capable choice must not matter for photos.
		deps.transport.On("SendText", mock.Anything, testChatID, service.ImageReceivedNotice).Return(handle(20), nil).Once()
		deps.transport.On("DownloadPhoto", mock.Anything, large).Return(jpeg, "image/jpeg", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(20), service.GeneratingNotice).Return(nil).Once()
		deps.generator.On("Generate", mock.Anything, imageRequest(model.ChoiceFast, "sunset")).Return("A sunset over the sea.", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(20), "A sunset over the sea.").Return(nil).Once()

		d.Handle(ctx, photoEvent(model.ChatGroup, "sunset"))

		users, err := deps.history.Users(ctx)
		require.NoError(t, err)
		assert.Zero(t, users)
	})

	t.Run("Private photo uses the capable tier", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		_, err := deps.selector.Toggle(testUser, model.ChatPrivate)
		require.NoError(t, err)

		deps.transport.On("SendText", mock.Anything, testChatID, service.ImageReceivedNotice).Return(handle(21), nil).Once()
		deps.transport.On("DownloadPhoto", mock.Anything, large).Return(jpeg, "image/jpeg", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(21), service.GeneratingNotice).Return(nil).Once()
		deps.generator.On("Generate", mock.Anything, imageRequest(model.ChoiceCapable, "")).Return("A cat.", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(21), "A cat.").Return(nil).Once()

		d.Handle(ctx, photoEvent(model.ChatPrivate, ""))
	})

	t.Run("Download failure sends the notice", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, service.ImageReceivedNotice).Return(handle(22), nil).Once()
		deps.transport.On("DownloadPhoto", mock.Anything, large).Return(nil, "", errors.New("file is too big")).Once()
		deps.transport.On("SendText", mock.Anything, testChatID, service.ErrorNotice).Return(handle(23), nil).Once()

		d.Handle(ctx, photoEvent(model.ChatGroup, "sunset"))
	})

	t.Run("Generation failure sends the notice", func(t *testing.T) {
		d, deps := setupDispatcher(t)
		deps.transport.On("SendText", mock.Anything, testChatID, service.ImageReceivedNotice).Return(handle(24), nil).Once()
		deps.transport.On("DownloadPhoto", mock.Anything, large).Return(jpeg, "image/jpeg", nil).Once()
		deps.transport.On("EditText", mock.Anything, handle(24), service.GeneratingNotice).Return(nil).Once()
		deps.generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("blocked")).Once()
		deps.transport.On("SendText", mock.Anything, testChatID, service.ErrorNotice).Return(handle(25), nil).Once()

		d.Handle(ctx, photoEvent(model.ChatPrivate, "sunset"))
	})
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	d, deps := setupDispatcher(t)
	deps.transport.On("SendText", mock.Anything, testChatID, service.GeneratingNotice).Return(handle(30), nil).Once()
	deps.generator.On("Generate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("unexpected") }).
		Return("", nil).Once()

	assert.NotPanics(t, func() {
		d.Handle(context.Background(), textEvent(model.ChatPrivate, "hi"))
	})
}

// Rounds for different users run concurrently and never see each other's turns.
func TestDispatcher_ConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	d, deps := setupDispatcher(t)

	deps.transport.On("SendText", mock.Anything, mock.Anything, service.GeneratingNotice).Return(handle(40), nil)
	deps.transport.On("EditText", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	deps.generator.On("Generate", mock.Anything, mock.Anything).
		Return(func(_ context.Context, req *llm.GenerateRequest) (string, error) {
			return "echo: " + req.Input.Text(), nil
		})

	const users = 20
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(user model.UserID) {
			defer wg.Done()
			d.Handle(ctx, model.Event{
				UserID:   user,
				ChatID:   int64(user),
				ChatType: model.ChatPrivate,
				Text:     fmt.Sprintf("question %d", user),
			})
		}(model.UserID(i + 1))
	}
	wg.Wait()

	for i := 1; i <= users; i++ {
		history, err := deps.history.Get(ctx, model.UserID(i))
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, fmt.Sprintf("question %d", i), history[0].Content.Text())
		assert.Equal(t, fmt.Sprintf("echo: question %d", i), history[1].Content.Text())
	}
}

// Two rounds from the same user overlap: the second sees the first user turn
// and no append is lost.
func TestDispatcher_SameUserOverlappingRounds(t *testing.T) {
	ctx := context.Background()
	d, deps := setupDispatcher(t)

	firstStarted := make(chan struct{})
	secondStarted := make(chan struct{})
	var secondHistory []model.Turn

	deps.transport.On("SendText", mock.Anything, testChatID, service.GeneratingNotice).Return(handle(50), nil).Twice()
	deps.transport.On("EditText", mock.Anything, handle(50), mock.Anything).Return(nil).Twice()
	deps.generator.On("Generate", mock.Anything, mock.Anything).
		Return(func(_ context.Context, req *llm.GenerateRequest) (string, error) {
			switch req.Input.Text() {
			case "first":
				close(firstStarted)
				select {
				case <-secondStarted:
				case <-time.After(5 * time.Second):
					return "", errors.New("second round never started")
				}
				return "first answer", nil
			default:
				secondHistory = req.History
				close(secondStarted)
				return "second answer", nil
			}
		}).Twice()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.Handle(ctx, textEvent(model.ChatPrivate, "first"))
	}()

	select {
	case <-firstStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("first round never reached generation")
	}

	go func() {
		defer wg.Done()
		d.Handle(ctx, textEvent(model.ChatPrivate, "second"))
	}()
	wg.Wait()

	assert.Equal(t, []model.Turn{model.UserTurn("first")}, secondHistory)

	history, err := deps.history.Get(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, []model.Turn{model.UserTurn("first"), model.UserTurn("second")}, history[:2])
	assert.ElementsMatch(t, []model.Turn{
		model.UserTurn("first"),
		model.UserTurn("second"),
		model.ModelTurn("first answer"),
		model.ModelTurn("second answer"),
	}, history)
}
