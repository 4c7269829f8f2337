//go:build darwin && !test
// +build darwin,!test

package avaudio

/*
#cgo darwin CFLAGS: -x objective-c -fobjc-arc -Wno-deprecated-declarations
#cgo darwin LDFLAGS: -framework AVFoundation -framework Foundation
#include <stdlib.h>
#include <string.h>

#import <AVFoundation/AVFoundation.h>

@interface AVWindMixer : NSObject
@property(nonatomic, strong) AVAudioEngine *engine;
@property(nonatomic, strong) AVAudioEnvironmentNode *environment;
@property(nonatomic, strong) NSMutableArray<AVAudioPlayerNode *> *players;
@property(nonatomic, strong) NSMutableArray<AVAudioUnitVarispeed *> *varispeeds;
@property(nonatomic, strong) NSMutableArray<AVAudioPCMBuffer *> *buffers;
@property(nonatomic, assign) int sourceCount;
@end

@implementation AVWindMixer
@end

static void avaudio_set_error(char **err, const char *msg) {
	if (!err || *err) {
		return;
	}
	if (!msg) {
		msg = "unknown error";
	}
	*err = strdup(msg);
}

// Each source gets its own copy of the loop, rotated by an even share of
// the loop length. Identical carpets then never phase-align into one
// flanging wind.
static AVAudioPCMBuffer *avaudio_rotated_loop(AVAudioFormat *format, const float *samples, int frameCount, int offset) {
	AVAudioPCMBuffer *buf = [[AVAudioPCMBuffer alloc] initWithPCMFormat:format frameCapacity:(AVAudioFrameCount)frameCount];
	if (!buf) {
		return nil;
	}
	buf.frameLength = (AVAudioFrameCount)frameCount;
	float *dst = buf.floatChannelData[0];
	int tail = frameCount - offset;
	memcpy(dst, samples + offset, sizeof(float) * (size_t)tail);
	memcpy(dst + tail, samples, sizeof(float) * (size_t)offset);
	return buf;
}

static void *avaudio_create(int sourceCount, int sampleRate, const float *samples, int frameCount, char **err) {
	if (sourceCount <= 0) {
		avaudio_set_error(err, "audio init: source count must be > 0");
		return NULL;
	}
	if (sampleRate <= 0 || frameCount <= 0 || samples == NULL) {
		avaudio_set_error(err, "audio init: invalid sample data");
		return NULL;
	}

	@autoreleasepool {
		AVWindMixer *mixer = [AVWindMixer new];
		mixer.engine = [AVAudioEngine new];
		mixer.environment = [AVAudioEnvironmentNode new];
		mixer.players = [NSMutableArray arrayWithCapacity:sourceCount];
		mixer.varispeeds = [NSMutableArray arrayWithCapacity:sourceCount];
		mixer.buffers = [NSMutableArray arrayWithCapacity:sourceCount];
		mixer.sourceCount = sourceCount;

		AVAudioEnvironmentDistanceAttenuationParameters *atten = mixer.environment.distanceAttenuationParameters;
		atten.distanceAttenuationModel = AVAudioEnvironmentDistanceAttenuationModelExponential;
		atten.referenceDistance = 6.0;
		atten.rolloffFactor = 1.4;
		atten.maximumDistance = 240.0;

		[mixer.engine attachNode:mixer.environment];
		[mixer.engine connect:mixer.environment to:mixer.engine.mainMixerNode format:nil];

		AVAudioFormat *format = [[AVAudioFormat alloc] initWithCommonFormat:AVAudioPCMFormatFloat32 sampleRate:sampleRate channels:1 interleaved:NO];

		for (int i = 0; i < sourceCount; i++) {
			int offset = (int)(((long long)frameCount * i) / sourceCount);
			AVAudioPCMBuffer *loop = avaudio_rotated_loop(format, samples, frameCount, offset);
			if (!loop) {
				avaudio_set_error(err, "audio init: loop buffer allocation failed");
				return NULL;
			}

			AVAudioPlayerNode *player = [AVAudioPlayerNode new];
			AVAudioUnitVarispeed *varispeed = [AVAudioUnitVarispeed new];
			player.volume = 0.0;
			player.renderingAlgorithm = AVAudio3DMixingRenderingAlgorithmHRTF;
			varispeed.rate = 1.0;

			[mixer.engine attachNode:player];
			[mixer.engine attachNode:varispeed];
			[mixer.engine connect:player to:varispeed format:format];
			[mixer.engine connect:varispeed to:mixer.environment format:format];

			[player scheduleBuffer:loop atTime:nil options:AVAudioPlayerNodeBufferLoops completionHandler:nil];
			[mixer.players addObject:player];
			[mixer.varispeeds addObject:varispeed];
			[mixer.buffers addObject:loop];
		}

		NSError *error = nil;
		if (![mixer.engine startAndReturnError:&error]) {
			const char *msg = error ? error.localizedDescription.UTF8String : "audio init: AVAudioEngine start failed";
			avaudio_set_error(err, msg);
			return NULL;
		}
		for (AVAudioPlayerNode *player in mixer.players) {
			[player play];
		}

		return (__bridge_retained void *)mixer;
	}
}

static int avaudio_set_listener(void *ctx, float x, float y, float z, float yawDeg, float pitchDeg, char **err) {
	if (!ctx) {
		avaudio_set_error(err, "audio update: context is nil");
		return 1;
	}
	@autoreleasepool {
		AVWindMixer *mixer = (__bridge AVWindMixer *)ctx;
		mixer.environment.listenerPosition = AVAudioMake3DPoint(x, y, z);
		AVAudio3DAngularOrientation orient;
		orient.yaw = yawDeg;
		orient.pitch = pitchDeg;
		orient.roll = 0;
		mixer.environment.listenerAngularOrientation = orient;
		return 0;
	}
}

static int avaudio_set_source(void *ctx, int idx, float x, float y, float z, float gain, float rate, char **err) {
	if (!ctx) {
		avaudio_set_error(err, "audio update: context is nil");
		return 1;
	}
	@autoreleasepool {
		AVWindMixer *mixer = (__bridge AVWindMixer *)ctx;
		if (idx < 0 || idx >= mixer.sourceCount) {
			avaudio_set_error(err, "audio update: source index out of range");
			return 1;
		}
		AVAudioPlayerNode *player = mixer.players[(NSUInteger)idx];
		AVAudioUnitVarispeed *varispeed = mixer.varispeeds[(NSUInteger)idx];
		player.position = AVAudioMake3DPoint(x, y, z);
		player.volume = gain;
		varispeed.rate = rate;
		return 0;
	}
}

static void avaudio_destroy(void *ctx) {
	if (!ctx) {
		return;
	}
	@autoreleasepool {
		AVWindMixer *mixer = (__bridge_transfer AVWindMixer *)ctx;
		[mixer.engine stop];
		mixer.engine = nil;
		mixer.environment = nil;
		[mixer.players removeAllObjects];
		[mixer.varispeeds removeAllObjects];
		[mixer.buffers removeAllObjects];
	}
}

static void avaudio_free_error(char *err) {
	if (err) {
		free(err);
	}
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// System is a spatialized looping-sample mixer: one positional source per
// simulated body, each playing its own phase-shifted copy of one PCM loop
// with independent gain and playback rate.
type System struct {
	ptr         unsafe.Pointer
	sourceCount int
}

func NewSystem(sourceCount int, sampleRate int, samples []float32) (*System, error) {
	if sourceCount <= 0 {
		return nil, errors.New("audio init: source count must be > 0")
	}
	if sampleRate <= 0 {
		return nil, errors.New("audio init: sample rate must be > 0")
	}
	if len(samples) == 0 {
		return nil, errors.New("audio init: sample data is empty")
	}
	var cErr *C.char
	ptr := C.avaudio_create(C.int(sourceCount), C.int(sampleRate), (*C.float)(unsafe.Pointer(&samples[0])), C.int(len(samples)), &cErr)
	if err := takeError(cErr); err != nil {
		return nil, fmt.Errorf("audio init: %w", err)
	}
	if ptr == nil {
		return nil, errors.New("audio init: AVAudioEngine returned nil context")
	}
	return &System{ptr: ptr, sourceCount: sourceCount}, nil
}

func (s *System) SourceCount() int {
	if s == nil {
		return 0
	}
	return s.sourceCount
}

// SetListener points the environment's ear. Roll is not modeled; wind has
// no audible roll cue.
func (s *System) SetListener(x, y, z, yawDeg, pitchDeg float64) error {
	if s == nil || s.ptr == nil {
		return errors.New("audio update: system not initialized")
	}
	var cErr *C.char
	rc := C.avaudio_set_listener(s.ptr, C.float(x), C.float(y), C.float(z), C.float(yawDeg), C.float(pitchDeg), &cErr)
	if err := takeError(cErr); err != nil {
		return fmt.Errorf("audio update: %w", err)
	}
	if rc != 0 {
		return errors.New("audio update: listener update failed")
	}
	return nil
}

func (s *System) SetSource(idx int, src Source) error {
	if s == nil || s.ptr == nil {
		return errors.New("audio update: system not initialized")
	}
	var cErr *C.char
	rc := C.avaudio_set_source(s.ptr, C.int(idx), C.float(src.X), C.float(src.Y), C.float(src.Z), C.float(src.Gain), C.float(clampRate(src.Rate)), &cErr)
	if err := takeError(cErr); err != nil {
		return fmt.Errorf("audio update: %w", err)
	}
	if rc != 0 {
		return errors.New("audio update: source update failed")
	}
	return nil
}

func (s *System) Close() {
	if s == nil || s.ptr == nil {
		return
	}
	C.avaudio_destroy(s.ptr)
	s.ptr = nil
}

// takeError converts and frees a C error string. Returns nil when the C
// side reported nothing.
func takeError(cErr *C.char) error {
	if cErr == nil {
		return nil
	}
	defer C.avaudio_free_error(cErr)
	return errors.New(C.GoString(cErr))
}
